// Package session holds per-conversation dialogue state: which step of a
// multi-step entry the user is in, plus the pending product while grams
// are being collected. State is ephemeral; losing it across restarts only
// drops an in-progress entry.
package session

import "context"

// State is the dialogue state tag for one conversation.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingProduct State = "awaiting_product"
	StateAwaitingGrams   State = "awaiting_grams"
	StateAwaitingGoal    State = "awaiting_goal"
)

// Dialogue is the full per-conversation state. The product payload is
// only meaningful in StateAwaitingGrams; every transition out of that
// state clears it.
type Dialogue struct {
	State       State  `json:"state"`
	ProductName string `json:"product_name,omitempty"`
	KcalPer100g int    `json:"kcal_per_100g,omitempty"`
}

// Idle returns the initial dialogue state.
func Idle() Dialogue {
	return Dialogue{State: StateIdle}
}

// Store is a keyed dialogue-state store. Get returns the idle state for
// conversations it has never seen.
type Store interface {
	Get(ctx context.Context, chatID int64) (Dialogue, error)
	Set(ctx context.Context, chatID int64, d Dialogue) error
	Clear(ctx context.Context, chatID int64) error
}
