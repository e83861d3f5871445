package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is a person talking to the bot, identified by their Telegram account.
type User struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	DailyGoal  int       `gorm:"not null;default:2000" json:"daily_goal"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Product is a catalog entry. Name is stored lower-cased and unique;
// end users never create products, only the catalog seed does.
type Product struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	KcalPer100g int       `gorm:"not null" json:"kcal_per_100g"`
	CreatedAt   time.Time `json:"created_at"`
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Meal is one consumed-item record. ProductName and Calories are snapshots
// taken at record time; later catalog edits never change past meals.
type Meal struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ProductName string         `gorm:"not null" json:"product_name"`
	Grams       int            `gorm:"not null" json:"grams"`
	Calories    float64        `gorm:"not null" json:"calories"`
	Date        datatypes.Date `gorm:"not null;index" json:"date"`
	CreatedAt   time.Time      `json:"created_at"`
}
