package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caloriebot/backend/internal/models"
)

// IProductService defines the catalog resolution contract.
type IProductService interface {
	FindExact(ctx context.Context, name string) (*models.Product, error)
	FindSimilar(ctx context.Context, name string, limit int) ([]string, error)
	ListNames(ctx context.Context) ([]string, error)
	SeedProducts(ctx context.Context, items []SeedItem) (*SeedResult, error)
}

// IMealService defines the meal ledger contract.
type IMealService interface {
	Record(ctx context.Context, userID uuid.UUID, product *models.Product, grams int, date time.Time) (*models.Meal, error)
	DailyTotal(ctx context.Context, userID uuid.UUID, date time.Time) (float64, error)
	DailyEntries(ctx context.Context, userID uuid.UUID, date time.Time, newestFirst bool) ([]models.Meal, error)
	DeleteByID(ctx context.Context, mealID uuid.UUID) error
	DeleteDay(ctx context.Context, userID uuid.UUID, date time.Time) (int64, error)
	Lifetime(ctx context.Context, userID uuid.UUID) (*LifetimeStats, error)
}

// IUserService defines the user and goal tracking contract.
type IUserService interface {
	GetOrCreate(ctx context.Context, telegramID int64) (*models.User, error)
	Get(ctx context.Context, telegramID int64) (*models.User, error)
	SetGoal(ctx context.Context, telegramID int64, goal int) (*models.User, error)
}
