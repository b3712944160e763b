package testutil

import (
	"context"
	"time"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/authenticator"
	"github.com/bugsnap/backend/pkg/logger"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Jira: config.JiraConfigs{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURI:  "https://bugsnap.example/api/jira/callback",
			AuthBaseURL:  "https://auth.atlassian.com",
			APIBaseURL:   "https://api.atlassian.com",
			Scopes:       []string{"read:jira-work", "write:jira-work", "offline_access"},
			StateTimeout: 10 * time.Minute,
		},
		Usage: config.UsageConfigs{
			FreeDailyCap:  3,
			ProDailyCap:   50,
			RateWindow:    time.Minute,
			RatePerWindow: 10,
		},
		File: config.FileConfigs{
			MaxSize: 2 * 1024 * 1024,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
