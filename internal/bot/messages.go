package bot

import (
	"fmt"
	"strings"

	"github.com/caloriebot/backend/internal/models"
	"github.com/caloriebot/backend/internal/service"
)

const (
	msgWelcome = "👋 Hi! I'm a calorie-counting bot.\n\n" +
		"📝 What I can do:\n" +
		"• Count the calories of what you eat\n" +
		"• Keep daily statistics\n" +
		"• Track your daily calorie goal\n\n" +
		"💡 Use the buttons below to get around"

	msgHelp = "📋 How to use the bot:\n\n" +
		"➕ Add food — log something you ate\n" +
		"📊 Today's stats — everything logged today\n" +
		"🎯 My goal — set your daily calorie goal\n" +
		"📈 Overall stats — all-time statistics\n" +
		"🗑️ Delete entry — remove a logged item\n" +
		"❌ Clear day — remove everything logged today\n\n" +
		"💡 Quick add: /add apple 150"

	msgAskProduct = "📝 Enter a food name:\n\n" +
		"For example: apple, chicken breast, rice"

	msgAskGoal = "🎯 Enter your daily calorie goal:\n\n" +
		"For example: 2000\n\n" +
		"💡 Common ranges:\n" +
		"• Women: 1800-2200 kcal\n" +
		"• Men: 2200-2800 kcal"

	msgCancelled          = "❌ Cancelled"
	msgNotANumber         = "❌ Please enter a number (digits only)\nFor example: 150"
	msgGoalNotANumber     = "❌ Please enter a number (digits only)\nFor example: 2000"
	msgGramsOutOfRange    = "❌ Grams must be between 1 and 10000\nTry again:"
	msgGoalOutOfRange     = "❌ The goal must be between 500 and 10000 kcal\nTry again:"
	msgNoUser             = "❌ I don't know you yet. Press /start first"
	msgNoMealsToday       = "📭 Nothing logged today yet\n\nPress '➕ Add food' to start"
	msgNothingToDelete    = "📭 Nothing logged today yet"
	msgNothingToClear     = "📭 Nothing logged today, the day is already clean"
	msgPickDelete         = "🗑️ Pick an entry to delete:"
	msgDeleted            = "✅ Entry deleted!"
	msgDeleteCancelled    = "❌ Deletion cancelled"
	msgWhatNext           = "What next?"
	msgSomethingWentWrong = "⚠️ Something went wrong, please try again"
	msgAddUsage           = "💡 Usage: /add <name> <grams>\nFor example: /add apple 150"
	msgUseButtons         = "💡 Use the buttons below, or /help for a tour"
)

// trunc implements the display rounding policy: calorie values are
// always truncated toward zero, never rounded.
func trunc(v float64) int {
	return int(v)
}

func productNotFoundText(name string, suggestions []string) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("❌ '%s' is not in the catalog.\n\nTry another name or press Cancel", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "❌ '%s' is not in the catalog.\n\nSimilar foods:\n", name)
	for _, s := range suggestions {
		fmt.Fprintf(&b, "• %s\n", s)
	}
	b.WriteString("\nTry again or press Cancel")
	return b.String()
}

func askGramsText(product *models.Product) string {
	return fmt.Sprintf(
		"✅ %s\n🔥 %d kcal per 100g\n\n⚖️ Enter the amount in grams:\nFor example: 150",
		capitalize(product.Name), product.KcalPer100g,
	)
}

func mealAddedText(meal *models.Meal, todayTotal float64, goal int) string {
	status := goalStatusLine(todayTotal, goal, false)
	return fmt.Sprintf(
		"✅ Added!\n\n🍽️ %s\n⚖️ %d g\n🔥 %d kcal\n\n📊 Today: %d / %d kcal\n%s",
		capitalize(meal.ProductName), meal.Grams, trunc(meal.Calories),
		trunc(todayTotal), goal, status,
	)
}

func goalStatusLine(total float64, goal int, withPercent bool) string {
	status := service.StatusFor(total, goal)
	if status.Exceeded {
		return fmt.Sprintf("⚠️ Over the goal by %d kcal", status.Delta)
	}
	if withPercent {
		return fmt.Sprintf("✅ Remaining: %d kcal (%d%%)", status.Delta, status.Percent)
	}
	return fmt.Sprintf("✅ Remaining: %d kcal", status.Delta)
}

func dayStatsText(meals []models.Meal, goal int) string {
	var b strings.Builder
	b.WriteString("📅 Today's statistics:\n\n")

	var total float64
	for i, meal := range meals {
		fmt.Fprintf(&b, "%d. %s\n   ⚖️ %dg  |  🔥 %d kcal\n",
			i+1, capitalize(meal.ProductName), meal.Grams, trunc(meal.Calories))
		total += meal.Calories
	}

	b.WriteString("\n" + strings.Repeat("─", 30) + "\n")
	fmt.Fprintf(&b, "📊 Entries: %d\n", len(meals))
	fmt.Fprintf(&b, "🔥 Total: %d / %d kcal\n", trunc(total), goal)
	b.WriteString(goalStatusLine(total, goal, true))
	return b.String()
}

func goalSetText(goal int) string {
	return fmt.Sprintf("✅ Daily goal set: %d kcal\n\nNow go log some food!", goal)
}

func overallStatsText(user *models.User, stats *service.LifetimeStats, todayTotal float64) string {
	return fmt.Sprintf(
		"📈 Overall statistics:\n\n"+
			"🎯 Daily goal: %d kcal\n"+
			"📅 Days with entries: %d\n"+
			"🍽️ Meals logged: %d\n\n"+
			"📊 Averages:\n"+
			"• Per meal: %d kcal\n"+
			"• Per day: %d kcal\n\n"+
			"🔥 All-time calories: %d kcal\n\n"+
			"📆 Today: %d / %d kcal",
		user.DailyGoal, stats.DistinctDays, stats.TotalMeals,
		trunc(stats.AvgPerMeal), trunc(stats.AvgPerDay),
		trunc(stats.TotalCalories), trunc(todayTotal), user.DailyGoal,
	)
}

func dayClearedText(count int64) string {
	return fmt.Sprintf("🗑️ Entries removed: %d\nThe day is clean!", count)
}
