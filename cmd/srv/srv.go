package main

import (
	"context"
	"os"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/internal/common"
	"github.com/bugsnap/backend/internal/domain"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api/aiprovider"
	"github.com/bugsnap/backend/pkg/api/jira"
	"github.com/bugsnap/backend/pkg/authenticator"
	"github.com/bugsnap/backend/pkg/logger"
	"github.com/bugsnap/backend/pkg/redis"
	"github.com/bugsnap/backend/pkg/router"
	"github.com/bugsnap/backend/pkg/storage"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	fileStorage storage.Storage
	rateLimiter common.RateLimiter

	jiraEndpoint   jira.IEndpoint
	oauthEndpoint  jira.IOAuthEndpoint
	aiEndpoint     aiprovider.IEndpoint
	oauth2Services []authenticator.IOAuth2Service

	userRepo        repository.UserRepository
	oauth2Repo      repository.OAuth2Repository
	integrationRepo repository.IntegrationRepository
	bugReportRepo   repository.BugReportRepository
	dailyUsageRepo  repository.DailyUsageRepository

	authDomain        domain.AuthDomain
	userDomain        domain.UserDomain
	integrationDomain domain.IntegrationDomain
	bugDomain         domain.BugDomain

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) {
	if _, err := toml.DecodeFile(cctx.String("config"), &s.configs); err != nil {
		panic(err)
	}

	// Secrets never live in the config file of a deployed environment.
	overrideFromEnv(&s.configs.Auth.TokenSecret, "TOKEN_SECRET")
	overrideFromEnv(&s.configs.Database.Password, "DATABASE_PASSWORD")
	overrideFromEnv(&s.configs.Jira.ClientSecret, "JIRA_CLIENT_SECRET")
	overrideFromEnv(&s.configs.AI.APIKey, "AI_API_KEY")
	overrideFromEnv(&s.configs.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	overrideFromEnv(&s.configs.Storage.SecretKey, "STORAGE_SECRET_KEY")
}

func overrideFromEnv(target *string, name string) {
	if value, ok := os.LookupEnv(name); ok {
		*target = value
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" || s.configs.Env == "dev" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
}

func (s *srv) loadStorage() {
	s.fileStorage = storage.NewS3Storage(s.configs.Storage)
}

func (s *srv) loadRateLimiter() {
	client, err := redis.NewClient(s.configs.Redis)
	if err != nil {
		panic(err)
	}

	s.rateLimiter = common.NewRateLimiter(client, s.configs.Usage)
}

func (s *srv) loadEndpoint() {
	s.jiraEndpoint = jira.New(s.configs.Jira)
	s.oauthEndpoint = jira.NewOAuthEndpoint(s.configs.Jira)
	s.aiEndpoint = aiprovider.New(s.configs.AI)

	google, err := authenticator.NewOIDCService(context.Background(), s.configs.Auth.Google)
	if err != nil {
		panic(err)
	}

	s.oauth2Services = []authenticator.IOAuth2Service{google}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.integrationRepo = repository.NewIntegrationRepository()
	s.bugReportRepo = repository.NewBugReportRepository()
	s.dailyUsageRepo = repository.NewDailyUsageRepository()
}

func (s *srv) loadDomains() {
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.oauth2Repo, s.oauth2Services)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.bugReportRepo, s.dailyUsageRepo)
	s.integrationDomain = domain.NewIntegrationDomain(
		s.integrationRepo, s.bugReportRepo, s.userRepo, s.jiraEndpoint, s.oauthEndpoint)
	s.bugDomain = domain.NewBugDomain(
		s.bugReportRepo, s.dailyUsageRepo, s.userRepo, s.aiEndpoint, s.fileStorage, s.rateLimiter)
}
