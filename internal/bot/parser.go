package bot

import (
	"regexp"
	"strconv"
	"strings"
)

// quickAddPattern matches "name grams" with an optional unit suffix:
// "apple 150", "apple 150g", "apple 150 g", "brown rice 90 grams".
var quickAddPattern = regexp.MustCompile(`(?i)^(.+?)\s+(\d+)\s*(?:g|gr|grams?)?\.?$`)

// parseQuickAdd parses the one-shot /add form into a product name and a
// grams value. The name comes back trimmed and lower-cased, ready for
// exact catalog lookup.
func parseQuickAdd(text string) (name string, grams int, ok bool) {
	text = strings.TrimSpace(text)
	if lower := strings.ToLower(text); strings.HasPrefix(lower, "/add") {
		text = strings.TrimSpace(text[len("/add"):])
	}

	m := quickAddPattern.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}

	grams, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return strings.ToLower(strings.TrimSpace(m[1])), grams, true
}
