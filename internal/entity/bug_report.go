package entity

type BugReport struct {
	SnowFlakeBase

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title       string
	Description string
	Tags        Array[string]

	// ImageHash identifies the screenshot regardless of its file name, so a
	// re-submitted screenshot reuses the stored report instead of another
	// generation.
	ImageHash    string `gorm:"index"`
	ImageURL     string
	ThumbnailURL string

	IsPinned bool

	// IssueKey is set once the report has been exported to the tracker.
	IssueKey string
}
