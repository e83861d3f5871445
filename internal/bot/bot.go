// Package bot contains the session orchestrator: it routes each inbound
// chat event through the dialogue state machine and the catalog, ledger
// and goal services, and formats the replies.
package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/internal/session"
)

// Orchestrator handles one inbound event at a time per conversation and
// composes the core services into the bot's behaviour.
type Orchestrator struct {
	products service.IProductService
	meals    service.IMealService
	users    service.IUserService
	sessions session.Store
	sender   Sender
	log      *zap.Logger

	// now is injectable so tests can pin the calendar date.
	now func() time.Time
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(
	products service.IProductService,
	meals service.IMealService,
	users service.IUserService,
	sessions session.Store,
	sender Sender,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		products: products,
		meals:    meals,
		users:    users,
		sessions: sessions,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

// HandleEvent processes one inbound event. Failures are logged and
// answered in-band; they never propagate to the transport loop.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev Event) {
	var err error
	if ev.IsCallback() {
		err = o.handleCallback(ctx, ev)
	} else {
		err = o.handleMessage(ctx, ev)
	}
	if err != nil {
		o.log.Error("failed to handle event",
			zap.Int64("chat_id", ev.ChatID),
			zap.Error(err),
		)
		if sendErr := o.sender.Send(ctx, ev.ChatID, Reply{Text: msgSomethingWentWrong, Keyboard: mainKeyboard()}); sendErr != nil {
			o.log.Error("failed to send error reply", zap.Error(sendErr))
		}
	}
}

func (o *Orchestrator) handleMessage(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)

	// Commands and main-keyboard buttons win over dialogue state, so the
	// user is never stuck: starting a new dialogue resets the old one.
	switch {
	case text == "/start":
		return o.handleStart(ctx, ev)
	case text == "/help":
		return o.reply(ctx, ev.ChatID, msgHelp, mainKeyboard())
	case strings.HasPrefix(strings.ToLower(text), "/add"):
		return o.handleQuickAdd(ctx, ev, text)
	case text == btnAddFood:
		return o.startAddFood(ctx, ev)
	case text == btnDayStats:
		return o.showDayStats(ctx, ev)
	case text == btnMyGoal:
		return o.startSetGoal(ctx, ev)
	case text == btnOverall:
		return o.showOverallStats(ctx, ev)
	case text == btnDelete:
		return o.startDelete(ctx, ev)
	case text == btnClearDay:
		return o.clearDay(ctx, ev)
	}

	dlg, err := o.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		return err
	}

	switch dlg.State {
	case session.StateAwaitingProduct:
		if text == btnCancel {
			return o.cancelDialogue(ctx, ev.ChatID)
		}
		return o.processProductName(ctx, ev, text)
	case session.StateAwaitingGrams:
		if text == btnCancel {
			return o.cancelDialogue(ctx, ev.ChatID)
		}
		return o.processGrams(ctx, ev, dlg, text)
	case session.StateAwaitingGoal:
		if text == btnCancel {
			return o.cancelDialogue(ctx, ev.ChatID)
		}
		return o.processGoal(ctx, ev, text)
	default:
		return o.reply(ctx, ev.ChatID, msgUseButtons, mainKeyboard())
	}
}

func (o *Orchestrator) handleStart(ctx context.Context, ev Event) error {
	if err := o.sessions.Clear(ctx, ev.ChatID); err != nil {
		return err
	}
	if _, err := o.users.GetOrCreate(ctx, ev.UserID); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, msgWelcome, mainKeyboard())
}

// cancelDialogue aborts whatever is being collected. Cancel always
// succeeds and always lands back in idle.
func (o *Orchestrator) cancelDialogue(ctx context.Context, chatID int64) error {
	if err := o.sessions.Clear(ctx, chatID); err != nil {
		return err
	}
	return o.reply(ctx, chatID, msgCancelled, mainKeyboard())
}

func (o *Orchestrator) reply(ctx context.Context, chatID int64, text string, kb *Keyboard) error {
	return o.sender.Send(ctx, chatID, Reply{Text: text, Keyboard: kb})
}
