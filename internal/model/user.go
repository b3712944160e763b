package model

type GetMeRequest struct{}

type GetMeResponse User

type GetUsageRequest struct{}

type GetUsageResponse struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type SetBetaAccessRequest struct {
	UserID string `json:"user_id"`
	IsBeta bool   `json:"is_beta"`
}

type SetBetaAccessResponse struct{}

type SetProAccessRequest struct {
	UserID string `json:"user_id"`
	IsPro  bool   `json:"is_pro"`
}

type SetProAccessResponse struct{}

type GetUsersRequest struct{}

// AdminUser is the account summary shown on the admin dashboard.
type AdminUser struct {
	User
	ReportCount int64 `json:"report_count"`
}

type GetUsersResponse struct {
	Users []AdminUser `json:"users"`
}
