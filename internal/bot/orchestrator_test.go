package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/caloriebot/backend/internal/database"
	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/internal/session"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *Keyboard
}

// fakeSender records outbound traffic for assertions.
type fakeSender struct {
	sent  []sentMessage
	acks  []string
	edits []string
}

func (f *fakeSender) Send(_ context.Context, chatID int64, reply Reply) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: reply.Text, keyboard: reply.Keyboard})
	return nil
}

func (f *fakeSender) AckCallback(_ context.Context, callbackID, text string) error {
	f.acks = append(f.acks, callbackID)
	return nil
}

func (f *fakeSender) EditText(_ context.Context, _ int64, _ int, text string) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type testBot struct {
	orch     *Orchestrator
	sender   *fakeSender
	sessions *session.MemoryStore
	db       *gorm.DB
	meals    *service.MealService
	users    *service.UserService
}

const (
	testChatID = int64(100)
	testUserID = int64(7)
)

func newTestBot(t *testing.T, catalog ...service.SeedItem) *testBot {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	products := service.NewProductService(db)
	if len(catalog) > 0 {
		_, err := products.SeedProducts(context.Background(), catalog)
		require.NoError(t, err)
	}

	meals := service.NewMealService(db)
	users := service.NewUserService(db)
	sessions := session.NewMemoryStore()
	sender := &fakeSender{}

	orch := NewOrchestrator(products, meals, users, sessions, sender, zap.NewNop())
	orch.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }

	return &testBot{orch: orch, sender: sender, sessions: sessions, db: db, meals: meals, users: users}
}

func (b *testBot) send(text string) {
	b.orch.HandleEvent(context.Background(), Event{ChatID: testChatID, UserID: testUserID, Text: text})
}

func (b *testBot) tap(data string) {
	b.orch.HandleEvent(context.Background(), Event{
		ChatID: testChatID, UserID: testUserID, MessageID: 5,
		CallbackID: "cb-1", CallbackData: data,
	})
}

func (b *testBot) state(t *testing.T) session.Dialogue {
	t.Helper()
	d, err := b.sessions.Get(context.Background(), testChatID)
	require.NoError(t, err)
	return d
}

func TestStartCreatesUserAndResets(t *testing.T) {
	b := newTestBot(t)

	b.send(btnAddFood)
	assert.Equal(t, session.StateAwaitingProduct, b.state(t).State)

	b.send("/start")
	assert.Equal(t, session.StateIdle, b.state(t).State)
	assert.Contains(t, b.sender.last(t).text, "calorie-counting bot")

	_, err := b.users.Get(context.Background(), testUserID)
	assert.NoError(t, err)
}

func TestAddMealFullDialogue(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/start")
	b.send(btnAddFood)
	assert.Equal(t, session.StateAwaitingProduct, b.state(t).State)
	assert.Contains(t, b.sender.last(t).text, "Enter a food name")

	b.send("apple")
	dlg := b.state(t)
	assert.Equal(t, session.StateAwaitingGrams, dlg.State)
	assert.Equal(t, "apple", dlg.ProductName)
	assert.Equal(t, 52, dlg.KcalPer100g)

	b.send("150")
	assert.Equal(t, session.StateIdle, b.state(t).State)

	last := b.sender.last(t)
	assert.Contains(t, last.text, "Added!")
	assert.Contains(t, last.text, "150 g")
	assert.Contains(t, last.text, "78 kcal")

	user, err := b.users.Get(context.Background(), testUserID)
	require.NoError(t, err)
	entries, err := b.meals.DailyEntries(context.Background(), user.ID, b.orch.now(), false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 150, entries[0].Grams)
	assert.InDelta(t, 78.0, entries[0].Calories, 1e-9)
}

func TestProductNameCaseInsensitive(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send(btnAddFood)
	b.send("  APPLE  ")
	assert.Equal(t, session.StateAwaitingGrams, b.state(t).State)
}

func TestUnknownProductSuggestsAndStays(t *testing.T) {
	b := newTestBot(t,
		service.SeedItem{Name: "apple", KcalPer100g: 52},
		service.SeedItem{Name: "apples", KcalPer100g: 52},
		service.SeedItem{Name: "chicken breast", KcalPer100g: 165},
	)

	b.send(btnAddFood)
	b.send("aple")

	assert.Equal(t, session.StateAwaitingProduct, b.state(t).State)
	last := b.sender.last(t)
	assert.Contains(t, last.text, "not in the catalog")
	assert.Contains(t, last.text, "apple")
	assert.NotContains(t, last.text, "chicken breast")
}

func TestUnknownProductNoSuggestions(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "chicken breast", KcalPer100g: 165})

	b.send(btnAddFood)
	b.send("zzzz")

	assert.Equal(t, session.StateAwaitingProduct, b.state(t).State)
	assert.NotContains(t, b.sender.last(t).text, "Similar foods")
}

func TestGramsValidationRepromptsKeepingPayload(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send(btnAddFood)
	b.send("apple")

	for _, bad := range []string{"abc", "0", "10001"} {
		b.send(bad)
		dlg := b.state(t)
		assert.Equal(t, session.StateAwaitingGrams, dlg.State, "input %q", bad)
		assert.Equal(t, "apple", dlg.ProductName, "input %q", bad)
	}

	// Boundary values are accepted.
	b.send("1")
	assert.Equal(t, session.StateIdle, b.state(t).State)
	assert.Contains(t, b.sender.last(t).text, "Added!")
}

func TestCancelAlwaysReturnsToIdle(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send(btnAddFood)
	b.send(btnCancel)
	assert.Equal(t, session.StateIdle, b.state(t).State)
	assert.Contains(t, b.sender.last(t).text, "Cancelled")

	b.send(btnAddFood)
	b.send("apple")
	b.send(btnCancel)
	dlg := b.state(t)
	assert.Equal(t, session.StateIdle, dlg.State)
	assert.Empty(t, dlg.ProductName)

	b.send(btnMyGoal)
	b.send(btnCancel)
	assert.Equal(t, session.StateIdle, b.state(t).State)
}

func TestGoalDialogue(t *testing.T) {
	b := newTestBot(t)

	b.send(btnMyGoal)
	assert.Equal(t, session.StateAwaitingGoal, b.state(t).State)

	b.send("abc")
	assert.Equal(t, session.StateAwaitingGoal, b.state(t).State)

	for _, bad := range []string{"499", "10001"} {
		b.send(bad)
		assert.Equal(t, session.StateAwaitingGoal, b.state(t).State, "input %q", bad)
		assert.Contains(t, b.sender.last(t).text, "between 500 and 10000")
	}

	b.send("2500")
	assert.Equal(t, session.StateIdle, b.state(t).State)
	assert.Contains(t, b.sender.last(t).text, "Daily goal set: 2500")

	user, err := b.users.Get(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, 2500, user.DailyGoal)
}

func TestExceededGoalStatus(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "cake", KcalPer100g: 500})

	b.send("/start")
	b.send(btnAddFood)
	b.send("cake")
	b.send("500") // 2500 kcal against the default 2000 goal

	assert.Contains(t, b.sender.last(t).text, "Over the goal by 500")
}

func TestDayStats(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/start")
	b.send(btnDayStats)
	assert.Contains(t, b.sender.last(t).text, "Nothing logged today")

	b.send(btnAddFood)
	b.send("apple")
	b.send("150")

	b.send(btnDayStats)
	last := b.sender.last(t)
	assert.Contains(t, last.text, "Today's statistics")
	assert.Contains(t, last.text, "Apple")
	assert.Contains(t, last.text, "78 kcal")
	assert.Contains(t, last.text, "Remaining: 1922 kcal (3%)")
}

func TestOverallStatsZeroMeals(t *testing.T) {
	b := newTestBot(t)

	b.send("/start")
	b.send(btnOverall)

	last := b.sender.last(t)
	assert.Contains(t, last.text, "Days with entries: 0")
	assert.Contains(t, last.text, "Meals logged: 0")
	assert.Contains(t, last.text, "All-time calories: 0 kcal")
}

func TestMissingUserGuidance(t *testing.T) {
	b := newTestBot(t)

	for _, btn := range []string{btnDayStats, btnOverall, btnDelete, btnClearDay} {
		b.send(btn)
		assert.Contains(t, b.sender.last(t).text, "/start", "button %q", btn)
	}
}

func TestDeleteMenuAndCallback(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/start")
	b.send(btnAddFood)
	b.send("apple")
	b.send("150")

	b.send(btnDelete)
	last := b.sender.last(t)
	require.NotNil(t, last.keyboard)
	assert.True(t, last.keyboard.Inline)
	require.Len(t, last.keyboard.Rows, 2) // one meal + cancel row

	token := last.keyboard.Rows[0][0].Data
	assert.True(t, strings.HasPrefix(token, "delete:"))

	b.tap(token)
	assert.NotEmpty(t, b.sender.acks)
	assert.Contains(t, b.sender.edits, msgDeleted)

	user, err := b.users.Get(context.Background(), testUserID)
	require.NoError(t, err)
	entries, err := b.meals.DailyEntries(context.Background(), user.ID, b.orch.now(), false)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteMenuNewestFirst(t *testing.T) {
	b := newTestBot(t,
		service.SeedItem{Name: "apple", KcalPer100g: 52},
		service.SeedItem{Name: "rice", KcalPer100g: 130},
	)

	b.send("/start")
	b.send("/add apple 100")
	time.Sleep(5 * time.Millisecond)
	b.send("/add rice 100")

	b.send(btnDelete)
	kb := b.sender.last(t).keyboard
	require.NotNil(t, kb)
	require.Len(t, kb.Rows, 3)
	assert.Contains(t, kb.Rows[0][0].Text, "Rice")
	assert.Contains(t, kb.Rows[1][0].Text, "Apple")
}

func TestDeleteCallbackMissingMealIsNoop(t *testing.T) {
	b := newTestBot(t)

	b.tap(fmt.Sprintf("delete:%s", "2c3a4f0e-98f1-4a0a-9b70-000000000000"))
	assert.NotEmpty(t, b.sender.acks)
	// No error reply was sent.
	for _, m := range b.sender.sent {
		assert.NotContains(t, m.text, "Something went wrong")
	}
}

func TestCancelDeleteCallback(t *testing.T) {
	b := newTestBot(t)

	b.tap("cancel_delete")
	assert.Contains(t, b.sender.edits, msgDeleteCancelled)
	assert.Contains(t, b.sender.last(t).text, msgWhatNext)
}

func TestClearDay(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/start")
	b.send(btnClearDay)
	assert.Contains(t, b.sender.last(t).text, "already clean")

	b.send("/add apple 100")
	b.send("/add apple 200")

	b.send(btnClearDay)
	assert.Contains(t, b.sender.last(t).text, "Entries removed: 2")

	b.send(btnClearDay)
	assert.Contains(t, b.sender.last(t).text, "already clean")
}

func TestQuickAdd(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/add apple 150g")
	last := b.sender.last(t)
	assert.Contains(t, last.text, "Added!")
	assert.Contains(t, last.text, "78 kcal")
	assert.Equal(t, session.StateIdle, b.state(t).State)
}

func TestQuickAddBadUsage(t *testing.T) {
	b := newTestBot(t)

	b.send("/add")
	assert.Contains(t, b.sender.last(t).text, "Usage")
}

func TestQuickAddUnknownProduct(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	b.send("/add aple 150")
	assert.Contains(t, b.sender.last(t).text, "not in the catalog")
}

func TestIdleFallback(t *testing.T) {
	b := newTestBot(t)

	b.send("what do I do")
	assert.Contains(t, b.sender.last(t).text, "/help")
}

func TestButtonsWinOverDialogueState(t *testing.T) {
	b := newTestBot(t, service.SeedItem{Name: "apple", KcalPer100g: 52})

	// Starting a new dialogue from inside another one resets it.
	b.send(btnAddFood)
	b.send(btnMyGoal)
	assert.Equal(t, session.StateAwaitingGoal, b.state(t).State)
}
