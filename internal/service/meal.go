package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caloriebot/backend/internal/models"
)

// Grams bounds for a single meal entry.
const (
	GramsMin = 1
	GramsMax = 10000
)

// ErrGramsOutOfRange is returned when a grams value falls outside [GramsMin, GramsMax].
var ErrGramsOutOfRange = errors.New("grams must be between 1 and 10000")

// ValidateGrams checks a grams value against the accepted range.
// Callers must run this before MealService.Record, which assumes valid input.
func ValidateGrams(grams int) error {
	if grams < GramsMin || grams > GramsMax {
		return ErrGramsOutOfRange
	}
	return nil
}

// LifetimeStats aggregates a user's whole meal history.
type LifetimeStats struct {
	DistinctDays  int64
	TotalMeals    int64
	AvgPerMeal    float64
	AvgPerDay     float64
	TotalCalories float64
}

// MealService is the meal ledger: per-day consumed-item records and
// their aggregates.
type MealService struct {
	db *gorm.DB
}

// Ensure MealService implements IMealService
var _ IMealService = (*MealService)(nil)

// NewMealService creates a new MealService instance
func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// Record persists one consumed item. Calories are computed here, once,
// from the product's current rate; the stored value never changes after
// that, whatever happens to the catalog. Grams must already be validated.
func (s *MealService) Record(ctx context.Context, userID uuid.UUID, product *models.Product, grams int, date time.Time) (*models.Meal, error) {
	meal := models.Meal{
		ID:          uuid.New(),
		UserID:      userID,
		ProductName: product.Name,
		Grams:       grams,
		Calories:    float64(product.KcalPer100g) * float64(grams) / 100,
		Date:        models.DateOf(date),
	}
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

// DailyTotal returns the calorie sum for one user and date, 0 when empty.
func (s *MealService) DailyTotal(ctx context.Context, userID uuid.UUID, date time.Time) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("user_id = ? AND date = ?", userID, models.DateOf(date)).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DailyEntries lists one user's meals for a date. Ascending insertion
// order for the stats view, descending for the delete menu.
func (s *MealService) DailyEntries(ctx context.Context, userID uuid.UUID, date time.Time, newestFirst bool) ([]models.Meal, error) {
	order := "created_at ASC, id ASC"
	if newestFirst {
		order = "created_at DESC, id DESC"
	}

	var meals []models.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, models.DateOf(date)).
		Order(order).
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// DeleteByID removes a single meal. Deleting an id that does not exist
// is a no-op, not an error.
func (s *MealService) DeleteByID(ctx context.Context, mealID uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Meal{}, "id = ?", mealID).Error
}

// DeleteDay removes all of a user's meals for a date and reports how
// many were removed.
func (s *MealService) DeleteDay(ctx context.Context, userID uuid.UUID, date time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, models.DateOf(date)).
		Delete(&models.Meal{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Lifetime returns aggregates over the user's whole history. All fields
// are zero when no meals exist.
func (s *MealService) Lifetime(ctx context.Context, userID uuid.UUID) (*LifetimeStats, error) {
	stats := &LifetimeStats{}
	base := s.db.WithContext(ctx).Model(&models.Meal{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).
		Select("COUNT(DISTINCT date)").Scan(&stats.DistinctDays).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Count(&stats.TotalMeals).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(calories), 0)").Scan(&stats.TotalCalories).Error; err != nil {
		return nil, err
	}

	if stats.TotalMeals > 0 {
		stats.AvgPerMeal = stats.TotalCalories / float64(stats.TotalMeals)
	}
	if stats.DistinctDays > 0 {
		stats.AvgPerDay = stats.TotalCalories / float64(stats.DistinctDays)
	}
	return stats, nil
}
