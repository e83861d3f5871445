package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/caloriebot/backend/internal/models"
	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/internal/session"
)

// maxSuggestions caps the fuzzy-match list shown on a resolver miss.
const maxSuggestions = 5

func (o *Orchestrator) startAddFood(ctx context.Context, ev Event) error {
	if err := o.sessions.Set(ctx, ev.ChatID, session.Dialogue{State: session.StateAwaitingProduct}); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, msgAskProduct, cancelKeyboard())
}

// processProductName resolves the entered name. An exact hit advances
// the dialogue to grams entry; a miss re-prompts with suggestions and
// stays where it is.
func (o *Orchestrator) processProductName(ctx context.Context, ev Event, text string) error {
	name := strings.ToLower(strings.TrimSpace(text))

	product, err := o.products.FindExact(ctx, name)
	if errors.Is(err, service.ErrProductNotFound) {
		suggestions, err := o.products.FindSimilar(ctx, name, maxSuggestions)
		if err != nil {
			return err
		}
		return o.reply(ctx, ev.ChatID, productNotFoundText(name, suggestions), cancelKeyboard())
	}
	if err != nil {
		return err
	}

	next := session.Dialogue{
		State:       session.StateAwaitingGrams,
		ProductName: product.Name,
		KcalPer100g: product.KcalPer100g,
	}
	if err := o.sessions.Set(ctx, ev.ChatID, next); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, askGramsText(product), cancelKeyboard())
}

// processGrams validates the grams input and, when valid, writes the
// ledger entry and closes the dialogue. Invalid input re-prompts and
// keeps the pending product.
func (o *Orchestrator) processGrams(ctx context.Context, ev Event, dlg session.Dialogue, text string) error {
	if dlg.ProductName == "" {
		// Payload lost; do not strand the user in a dead state.
		if err := o.sessions.Clear(ctx, ev.ChatID); err != nil {
			return err
		}
		return o.reply(ctx, ev.ChatID, msgUseButtons, mainKeyboard())
	}

	grams, err := strconv.Atoi(text)
	if err != nil {
		return o.reply(ctx, ev.ChatID, msgNotANumber, cancelKeyboard())
	}
	if err := service.ValidateGrams(grams); err != nil {
		return o.reply(ctx, ev.ChatID, msgGramsOutOfRange, cancelKeyboard())
	}

	product := &models.Product{Name: dlg.ProductName, KcalPer100g: dlg.KcalPer100g}
	return o.recordMeal(ctx, ev, product, grams)
}

// handleQuickAdd is the one-shot entry form: "/add apple 150". It runs
// the whole resolve-validate-record pipeline without a dialogue.
func (o *Orchestrator) handleQuickAdd(ctx context.Context, ev Event, text string) error {
	name, grams, ok := parseQuickAdd(text)
	if !ok {
		return o.reply(ctx, ev.ChatID, msgAddUsage, mainKeyboard())
	}

	product, err := o.products.FindExact(ctx, name)
	if errors.Is(err, service.ErrProductNotFound) {
		suggestions, err := o.products.FindSimilar(ctx, name, maxSuggestions)
		if err != nil {
			return err
		}
		return o.reply(ctx, ev.ChatID, productNotFoundText(name, suggestions), mainKeyboard())
	}
	if err != nil {
		return err
	}

	if err := service.ValidateGrams(grams); err != nil {
		return o.reply(ctx, ev.ChatID, msgGramsOutOfRange, mainKeyboard())
	}
	return o.recordMeal(ctx, ev, product, grams)
}

// recordMeal writes the ledger entry, then resets the dialogue. The
// state reset happens only after the write succeeded, so a storage
// failure leaves the dialogue intact for a retry.
func (o *Orchestrator) recordMeal(ctx context.Context, ev Event, product *models.Product, grams int) error {
	user, err := o.users.GetOrCreate(ctx, ev.UserID)
	if err != nil {
		return err
	}

	now := o.now()
	meal, err := o.meals.Record(ctx, user.ID, product, grams, now)
	if err != nil {
		return err
	}

	total, err := o.meals.DailyTotal(ctx, user.ID, now)
	if err != nil {
		return err
	}

	if err := o.sessions.Clear(ctx, ev.ChatID); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, mealAddedText(meal, total, user.DailyGoal), mainKeyboard())
}

func (o *Orchestrator) startDelete(ctx context.Context, ev Event) error {
	user, err := o.users.Get(ctx, ev.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		return o.reply(ctx, ev.ChatID, msgNoUser, mainKeyboard())
	}
	if err != nil {
		return err
	}

	meals, err := o.meals.DailyEntries(ctx, user.ID, o.now(), true)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		return o.reply(ctx, ev.ChatID, msgNothingToDelete, mainKeyboard())
	}
	return o.reply(ctx, ev.ChatID, msgPickDelete, deleteKeyboard(meals))
}

func (o *Orchestrator) clearDay(ctx context.Context, ev Event) error {
	user, err := o.users.Get(ctx, ev.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		return o.reply(ctx, ev.ChatID, msgNoUser, mainKeyboard())
	}
	if err != nil {
		return err
	}

	count, err := o.meals.DeleteDay(ctx, user.ID, o.now())
	if err != nil {
		return err
	}
	if count == 0 {
		return o.reply(ctx, ev.ChatID, msgNothingToClear, mainKeyboard())
	}
	return o.reply(ctx, ev.ChatID, dayClearedText(count), mainKeyboard())
}

// handleCallback processes inline-button taps. Tokens are
// "action:parameter"; unknown or stale tokens are acknowledged and
// otherwise ignored, and deleting an already-deleted entry is a
// zero-effect success.
func (o *Orchestrator) handleCallback(ctx context.Context, ev Event) error {
	action, param, _ := strings.Cut(ev.CallbackData, ":")

	switch action {
	case actionDelete:
		mealID, err := uuid.Parse(param)
		if err != nil {
			return o.sender.AckCallback(ctx, ev.CallbackID, "")
		}
		if err := o.meals.DeleteByID(ctx, mealID); err != nil {
			return err
		}
		if err := o.sender.AckCallback(ctx, ev.CallbackID, msgDeleted); err != nil {
			return err
		}
		if err := o.sender.EditText(ctx, ev.ChatID, ev.MessageID, msgDeleted); err != nil {
			return err
		}
		return o.reply(ctx, ev.ChatID, msgWhatNext, mainKeyboard())

	case actionCancelDelete:
		if err := o.sender.AckCallback(ctx, ev.CallbackID, ""); err != nil {
			return err
		}
		if err := o.sender.EditText(ctx, ev.ChatID, ev.MessageID, msgDeleteCancelled); err != nil {
			return err
		}
		return o.reply(ctx, ev.ChatID, msgWhatNext, mainKeyboard())

	default:
		return o.sender.AckCallback(ctx, ev.CallbackID, "")
	}
}
