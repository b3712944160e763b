package entity

import "time"

const JiraProvider = "jira"

// Integration holds the per-user credential of an external tracker. Both
// tokens always belong to the same grant: they are written together and
// removed together.
type Integration struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Provider string `gorm:"primaryKey"`

	SiteID  string
	SiteURL string

	AccessToken  string
	RefreshToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}
