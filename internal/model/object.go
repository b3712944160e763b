package model

type AccessToken struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JiraState is the signed payload carried through the OAuth authorization
// redirect.
type JiraState struct {
	UserID string `json:"user_id"`
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	IsBeta    bool   `json:"is_beta"`
	IsPro     bool   `json:"is_pro"`
	CreatedAt string `json:"created_at"`
}

type BugReport struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags,omitempty"`
	ImageURL     string   `json:"image_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	IsPinned     bool     `json:"is_pinned"`
	IssueKey     string   `json:"issue_key,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

type JiraProject struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type JiraIssueType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type JiraPriority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type JiraUser struct {
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
}

type JiraBoard struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type JiraSprint struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}
