package entity

// OAuth2 links a user with the external identity that signed them in.
// A user may hold one link per login service.
type OAuth2 struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Service       string `gorm:"primaryKey"`
	ServiceUserID string `gorm:"unique"`
}

func (OAuth2) TableName() string {
	return "oauth2"
}
