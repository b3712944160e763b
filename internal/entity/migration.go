package entity

import "time"

type Migration struct {
	Version   string `gorm:"primaryKey"`
	AppliedAt time.Time
}
