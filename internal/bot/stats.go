package bot

import (
	"context"
	"errors"
	"strconv"

	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/internal/session"
)

func (o *Orchestrator) showDayStats(ctx context.Context, ev Event) error {
	user, err := o.users.Get(ctx, ev.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		return o.reply(ctx, ev.ChatID, msgNoUser, mainKeyboard())
	}
	if err != nil {
		return err
	}

	meals, err := o.meals.DailyEntries(ctx, user.ID, o.now(), false)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		return o.reply(ctx, ev.ChatID, msgNoMealsToday, mainKeyboard())
	}
	return o.reply(ctx, ev.ChatID, dayStatsText(meals, user.DailyGoal), mainKeyboard())
}

func (o *Orchestrator) showOverallStats(ctx context.Context, ev Event) error {
	user, err := o.users.Get(ctx, ev.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		return o.reply(ctx, ev.ChatID, msgNoUser, mainKeyboard())
	}
	if err != nil {
		return err
	}

	stats, err := o.meals.Lifetime(ctx, user.ID)
	if err != nil {
		return err
	}
	todayTotal, err := o.meals.DailyTotal(ctx, user.ID, o.now())
	if err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, overallStatsText(user, stats, todayTotal), mainKeyboard())
}

func (o *Orchestrator) startSetGoal(ctx context.Context, ev Event) error {
	if err := o.sessions.Set(ctx, ev.ChatID, session.Dialogue{State: session.StateAwaitingGoal}); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, msgAskGoal, cancelKeyboard())
}

// processGoal validates and stores the entered daily goal. Bad input
// re-prompts in place.
func (o *Orchestrator) processGoal(ctx context.Context, ev Event, text string) error {
	goal, err := strconv.Atoi(text)
	if err != nil {
		return o.reply(ctx, ev.ChatID, msgGoalNotANumber, cancelKeyboard())
	}

	if _, err := o.users.SetGoal(ctx, ev.UserID, goal); err != nil {
		if errors.Is(err, service.ErrGoalOutOfRange) {
			return o.reply(ctx, ev.ChatID, msgGoalOutOfRange, cancelKeyboard())
		}
		return err
	}

	if err := o.sessions.Clear(ctx, ev.ChatID); err != nil {
		return err
	}
	return o.reply(ctx, ev.ChatID, goalSetText(goal), mainKeyboard())
}
