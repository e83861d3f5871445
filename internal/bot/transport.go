package bot

import "context"

// Event is one inbound chat event, either a text message or a button tap.
type Event struct {
	ChatID    int64
	UserID    int64
	MessageID int

	// Text is set for plain messages and commands.
	Text string

	// CallbackID and CallbackData are set for inline-button taps.
	// CallbackData carries an "action:parameter" token.
	CallbackID   string
	CallbackData string
}

// IsCallback reports whether the event originated from an inline button.
func (e Event) IsCallback() bool {
	return e.CallbackID != ""
}

// Button is one keyboard button. Data, when set, makes it an inline
// callback button carrying that token.
type Button struct {
	Text string
	Data string
}

// Keyboard is a structured button layout attached to a reply.
type Keyboard struct {
	Inline bool
	Rows   [][]Button
}

// Reply is one outbound message with an optional keyboard.
type Reply struct {
	Text     string
	Keyboard *Keyboard
}

// Sender is the narrow outbound contract the orchestrator needs from the
// chat transport.
type Sender interface {
	Send(ctx context.Context, chatID int64, reply Reply) error
	AckCallback(ctx context.Context, callbackID, text string) error
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
}
