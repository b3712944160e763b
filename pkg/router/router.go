package router

import (
	"context"
	"net/http"
	"time"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/authenticator"
	"github.com/bugsnap/backend/pkg/logger"

	"github.com/rs/cors"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. A non-nil returned
// context replaces the request context for the rest of the chain.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux
	cfg config.Configs

	db          *gorm.DB
	logger      logger.Logger
	tokenEngine authenticator.TokenEngine
	httpClient  *http.Client

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	timeout := cfg.ApiServer.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		db:          db,
		logger:      logger,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain.
func (r *Router) Branch() *Router {
	branch := *r
	branch.befores = append([]MiddlewareFunc{}, r.befores...)
	branch.afters = append([]MiddlewareFunc{}, r.afters...)
	branch.closers = append([]CloserFunc{}, r.closers...)
	return &branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r.Branch(), http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r.Branch(), http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}
