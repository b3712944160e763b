package model

const (
	JiraStatusConnected    = "CONNECTED"
	JiraStatusNotConnected = "NOT_CONNECTED"
	JiraStatusExpired      = "EXPIRED"
)

type ConnectJiraRequest struct{}

type ConnectJiraResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type JiraCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type JiraCallbackResponse struct {
	SiteURL string `json:"site_url"`
}

type DisconnectJiraRequest struct{}

type DisconnectJiraResponse struct{}

type GetJiraStatusRequest struct{}

type GetJiraStatusResponse struct {
	Status  string `json:"status"`
	SiteURL string `json:"site_url,omitempty"`
}

type GetJiraMetaRequest struct {
	ProjectID string `json:"project_id"`
	BoardID   int    `json:"board_id"`
}

type GetJiraMetaResponse struct {
	Projects   []JiraProject   `json:"projects"`
	IssueTypes []JiraIssueType `json:"issue_types,omitempty"`
	Priorities []JiraPriority  `json:"priorities"`
	Users      []JiraUser      `json:"users"`
	Boards     []JiraBoard     `json:"boards"`
	Sprints    []JiraSprint    `json:"sprints,omitempty"`
}

type CreateJiraIssueRequest struct {
	ReportID    string   `json:"report_id"`
	ProjectID   string   `json:"project_id"`
	IssueTypeID string   `json:"issue_type_id"`
	PriorityID  string   `json:"priority_id"`
	AssigneeID  string   `json:"assignee_id"`
	SprintID    string   `json:"sprint_id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`

	AttachScreenshot bool `json:"attach_screenshot"`
}

type CreateJiraIssueResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type AttachJiraImageRequest struct {
	IssueKey string `json:"issue_key"`
	FileName string `json:"file_name"`
	Image    string `json:"image"`
}

type AttachJiraImageResponse struct{}
