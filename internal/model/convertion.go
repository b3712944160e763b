package model

import (
	"strconv"
	"time"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/api/jira"

	"github.com/bwmarrin/snowflake"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	role := user.Role
	if !includeSensitive {
		role = ""
	}

	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      role,
		IsBeta:    user.IsBeta,
		IsPro:     user.IsPro(),
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBugReport(report *entity.BugReport) BugReport {
	if report == nil {
		return BugReport{}
	}

	// The snowflake identifier encodes its own creation time.
	createdAt := time.UnixMilli(snowflake.ID(report.ID).Time())

	return BugReport{
		ID:           strconv.FormatInt(report.ID, 10),
		Title:        report.Title,
		Description:  report.Description,
		Tags:         report.Tags,
		ImageURL:     report.ImageURL,
		ThumbnailURL: report.ThumbnailURL,
		IsPinned:     report.IsPinned,
		IssueKey:     report.IssueKey,
		CreatedAt:    createdAt.Format(DefaultTimeLayout),
	}
}

func ConvertJiraProjects(projects []jira.Project) []JiraProject {
	result := []JiraProject{}
	for _, p := range projects {
		result = append(result, JiraProject{ID: p.ID, Key: p.Key, Name: p.Name})
	}
	return result
}

func ConvertJiraIssueTypes(issueTypes []jira.IssueType) []JiraIssueType {
	result := []JiraIssueType{}
	for _, t := range issueTypes {
		result = append(result, JiraIssueType{ID: t.ID, Name: t.Name})
	}
	return result
}

func ConvertJiraPriorities(priorities []jira.Priority) []JiraPriority {
	result := []JiraPriority{}
	for _, p := range priorities {
		result = append(result, JiraPriority{ID: p.ID, Name: p.Name})
	}
	return result
}

func ConvertJiraUsers(users []jira.User) []JiraUser {
	result := []JiraUser{}
	for _, u := range users {
		result = append(result, JiraUser{AccountID: u.AccountID, DisplayName: u.DisplayName})
	}
	return result
}

func ConvertJiraBoards(boards []jira.Board) []JiraBoard {
	result := []JiraBoard{}
	for _, b := range boards {
		result = append(result, JiraBoard{ID: b.ID, Name: b.Name})
	}
	return result
}

func ConvertJiraSprints(sprints []jira.Sprint) []JiraSprint {
	result := []JiraSprint{}
	for _, s := range sprints {
		result = append(result, JiraSprint{ID: s.ID, Name: s.Name, State: s.State})
	}
	return result
}
