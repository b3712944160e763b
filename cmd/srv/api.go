package main

import (
	"net/http"

	"github.com/bugsnap/backend/internal/middleware"
	"github.com/bugsnap/backend/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadStorage()
	s.loadRateLimiter()
	s.loadEndpoint()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	httpServer := &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting the server on %s", s.configs.ApiServer.Address())
	if err := httpServer.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Login API
	router.POST(s.router, "/oauth2/verify", s.authDomain.OAuth2Verify)

	// These following APIs need authentication.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.VerifyAccessToken())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getUsage", s.userDomain.GetUsage)

		// Bug report API
		router.POST(authRouter, "/generateBug", s.bugDomain.Generate)
		router.GET(authRouter, "/getHistory", s.bugDomain.GetHistory)
		router.POST(authRouter, "/deleteBugReport", s.bugDomain.Delete)
		router.POST(authRouter, "/pinBugReport", s.bugDomain.Pin)

		// Jira integration API
		router.GET(authRouter, "/jira/connect", s.integrationDomain.ConnectJira)
		router.GET(authRouter, "/jira/callback", s.integrationDomain.JiraCallback)
		router.POST(authRouter, "/jira/disconnect", s.integrationDomain.DisconnectJira)
		router.GET(authRouter, "/jira/status", s.integrationDomain.GetJiraStatus)
		router.GET(authRouter, "/jira/meta", s.integrationDomain.GetJiraMeta)
		router.POST(authRouter, "/jira/createIssue", s.integrationDomain.CreateJiraIssue)
		router.POST(authRouter, "/jira/attachImage", s.integrationDomain.AttachJiraImage)
	}

	// Admin API
	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.VerifyAccessToken())
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.GET(adminRouter, "/admin/getUsers", s.userDomain.GetUsers)
		router.POST(adminRouter, "/admin/setBetaAccess", s.userDomain.SetBetaAccess)
		router.POST(adminRouter, "/admin/setProAccess", s.userDomain.SetProAccess)
	}
}
