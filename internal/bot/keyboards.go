package bot

import (
	"fmt"
	"strings"

	"github.com/caloriebot/backend/internal/models"
)

// Main keyboard button labels. The orchestrator routes on these exact
// strings, so they live next to the layouts.
const (
	btnAddFood  = "➕ Add food"
	btnDayStats = "📊 Today's stats"
	btnMyGoal   = "🎯 My goal"
	btnOverall  = "📈 Overall stats"
	btnDelete   = "🗑️ Delete entry"
	btnClearDay = "❌ Clear day"
	btnCancel   = "❌ Cancel"
)

// Callback token actions, encoded as "action:parameter".
const (
	actionDelete       = "delete"
	actionCancelDelete = "cancel_delete"
)

func mainKeyboard() *Keyboard {
	return &Keyboard{
		Rows: [][]Button{
			{{Text: btnAddFood}, {Text: btnDayStats}},
			{{Text: btnMyGoal}, {Text: btnOverall}},
			{{Text: btnDelete}, {Text: btnClearDay}},
		},
	}
}

func cancelKeyboard() *Keyboard {
	return &Keyboard{
		Rows: [][]Button{
			{{Text: btnCancel}},
		},
	}
}

// deleteKeyboard builds the inline menu listing today's meals, one delete
// button per entry plus a cancel row.
func deleteKeyboard(meals []models.Meal) *Keyboard {
	rows := make([][]Button, 0, len(meals)+1)
	for _, meal := range meals {
		rows = append(rows, []Button{{
			Text: fmt.Sprintf("🗑️ %s (%dg)", capitalize(meal.ProductName), meal.Grams),
			Data: fmt.Sprintf("%s:%s", actionDelete, meal.ID),
		}})
	}
	rows = append(rows, []Button{{Text: btnCancel, Data: actionCancelDelete}})
	return &Keyboard{Inline: true, Rows: rows}
}

// capitalize upper-cases the first rune for display; catalog names are
// stored lower-cased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
