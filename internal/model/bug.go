package model

// GenerateBugRequest carries either a screenshot (Image as a data URL) or a
// written Scenario; Notes annotate the screenshot.
type GenerateBugRequest struct {
	Image    string `json:"image"`
	Notes    string `json:"notes"`
	Scenario string `json:"scenario"`
}

type GenerateBugResponse struct {
	Report    BugReport `json:"report"`
	Cached    bool      `json:"cached"`
	Remaining int       `json:"remaining"`
}

type GetHistoryRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetHistoryResponse struct {
	Reports []BugReport `json:"reports"`
}

type DeleteBugReportRequest struct {
	ID string `json:"id"`
}

type DeleteBugReportResponse struct{}

type PinBugReportRequest struct {
	ID     string `json:"id"`
	Pinned bool   `json:"pinned"`
}

type PinBugReportResponse struct{}
