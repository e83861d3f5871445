package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/caloriebot/backend/internal/models"
)

// Daily goal bounds and default, in kcal.
const (
	DefaultDailyGoal = 2000
	GoalMin          = 500
	GoalMax          = 10000
)

var (
	// ErrUserNotFound is returned by Get when the user never interacted with the bot.
	ErrUserNotFound = errors.New("user not found")
	// ErrGoalOutOfRange is returned when a goal falls outside [GoalMin, GoalMax].
	ErrGoalOutOfRange = errors.New("daily goal must be between 500 and 10000")
)

// UserService manages users and their daily calorie goals.
type UserService struct {
	db *gorm.DB
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetOrCreate returns the user for a Telegram account, creating one with
// the default goal on first contact.
func (s *UserService) GetOrCreate(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		ID:         uuid.New(),
		TelegramID: telegramID,
		DailyGoal:  DefaultDailyGoal,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Get returns the user for a Telegram account or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetGoal validates and stores a new daily goal, creating the user if
// needed. Out-of-range values are rejected without touching storage.
func (s *UserService) SetGoal(ctx context.Context, telegramID int64, goal int) (*models.User, error) {
	if goal < GoalMin || goal > GoalMax {
		return nil, ErrGoalOutOfRange
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:         uuid.New(),
			TelegramID: telegramID,
			DailyGoal:  goal,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		user.DailyGoal = goal
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// GoalStatus describes how a calorie total stands against a daily goal.
type GoalStatus struct {
	Exceeded bool
	// Delta is kcal over the goal when exceeded, kcal remaining otherwise.
	Delta int
	// Percent of the goal consumed, truncated; only set when not exceeded.
	Percent int
}

// StatusFor derives the over/under status for a total against a goal.
// All numbers truncate toward zero, matching the display policy.
func StatusFor(total float64, goal int) GoalStatus {
	if total > float64(goal) {
		return GoalStatus{Exceeded: true, Delta: int(total - float64(goal))}
	}
	return GoalStatus{
		Delta:   int(float64(goal) - total),
		Percent: int(total / float64(goal) * 100),
	}
}
