package jira

import (
	"errors"
	"fmt"

	"github.com/bugsnap/backend/pkg/api"

	"github.com/mitchellh/mapstructure"
)

type TokenPair struct {
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
}

type Site struct {
	ID   string `mapstructure:"id"`
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

type Project struct {
	ID   string `mapstructure:"id"`
	Key  string `mapstructure:"key"`
	Name string `mapstructure:"name"`
}

type IssueType struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type Priority struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type User struct {
	AccountID    string `mapstructure:"accountId"`
	DisplayName  string `mapstructure:"displayName"`
	EmailAddress string `mapstructure:"emailAddress"`
}

type Board struct {
	ID       int    `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Location struct {
		ProjectID int `mapstructure:"projectId"`
	} `mapstructure:"location"`
}

type Sprint struct {
	ID    int    `mapstructure:"id"`
	Name  string `mapstructure:"name"`
	State string `mapstructure:"state"`
}

type CreatedIssue struct {
	ID  string `mapstructure:"id"`
	Key string `mapstructure:"key"`
}

// ParseValues decodes the `values` page wrapper used by most Jira search
// endpoints. Some endpoints return a bare array instead; both are accepted.
func ParseValues[T any](resp *api.Response) ([]T, error) {
	switch body := resp.Body.(type) {
	case api.JSON:
		values, err := body.GetArray("values")
		if err != nil {
			return nil, err
		}
		return decodeSlice[T](values)
	case api.Array:
		return decodeSlice[T](body)
	}

	return nil, errors.New("invalid body format")
}

func ParseOne[T any](resp *api.Response) (T, error) {
	var out T
	body, ok := resp.Body.(api.JSON)
	if !ok {
		return out, errors.New("invalid body format")
	}

	if err := mapstructure.Decode(map[string]any(body), &out); err != nil {
		return out, err
	}

	return out, nil
}

func decodeSlice[T any](values api.Array) ([]T, error) {
	out := make([]T, 0, len(values))
	for i, v := range values {
		var m map[string]any
		switch t := v.(type) {
		case api.JSON:
			m = t
		case map[string]any:
			m = t
		default:
			return nil, fmt.Errorf("invalid element %d (%T)", i, v)
		}

		var item T
		if err := mapstructure.Decode(m, &item); err != nil {
			return nil, err
		}

		out = append(out, item)
	}

	return out, nil
}
