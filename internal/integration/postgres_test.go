package integration

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/caloriebot/backend/internal/database"
	"github.com/caloriebot/backend/internal/models"
	"github.com/caloriebot/backend/internal/service"
)

// setupPostgres starts a disposable postgres and returns a migrated
// connection. Skipped when docker is unavailable.
func setupPostgres(t *testing.T) *gorm.DB {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test sslmode=disable",
		host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestMealLedgerOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	users := service.NewUserService(db)
	meals := service.NewMealService(db)
	products := service.NewProductService(db)

	_, err := products.SeedProducts(ctx, []service.SeedItem{
		{Name: "apple", KcalPer100g: 52},
	})
	require.NoError(t, err)

	user, err := users.GetOrCreate(ctx, 42)
	require.NoError(t, err)

	apple, err := products.FindExact(ctx, "apple")
	require.NoError(t, err)

	today := time.Now()
	meal, err := meals.Record(ctx, user.ID, apple, 150, today)
	require.NoError(t, err)
	assert.InDelta(t, 78.0, meal.Calories, 1e-9)

	total, err := meals.DailyTotal(ctx, user.ID, today)
	require.NoError(t, err)
	assert.InDelta(t, 78.0, total, 1e-9)

	entries, err := meals.DailyEntries(ctx, user.ID, today, false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "apple", entries[0].ProductName)

	count, err := meals.DeleteDay(ctx, user.ID, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = meals.DeleteDay(ctx, user.ID, today)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUniqueConstraintsOnPostgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	users := service.NewUserService(db)
	_, err := users.GetOrCreate(ctx, 42)
	require.NoError(t, err)

	// A second user row with the same telegram id must be rejected by
	// the schema, not just by the service lookup.
	dup := models.User{ID: uuid.New(), TelegramID: 42, DailyGoal: 2000}
	assert.Error(t, db.WithContext(ctx).Create(&dup).Error)
}
