package entity

type User struct {
	Base
	Email              string `gorm:"unique"`
	Name               string
	Role               string `gorm:"default:USER"`
	IsBeta             bool
	SubscriptionStatus string
}

const (
	AdminRole = "ADMIN"
	UserRole  = "USER"
)

const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
)

// IsPro reports whether the user has a paid plan in good standing.
func (u User) IsPro() bool {
	return u.SubscriptionStatus == SubscriptionActive ||
		u.SubscriptionStatus == SubscriptionTrialing
}
