package entity

import "time"

// DailyUsage counts generations per user per UTC day. Date uses the
// YYYY-MM-DD form so the pair (UserID, Date) stays a natural key.
type DailyUsage struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Date  string `gorm:"primaryKey"`
	Count int

	UpdatedAt time.Time
}
