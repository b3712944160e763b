package xcontext

import (
	"context"
	"net/http"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/authenticator"
	"github.com/bugsnap/backend/pkg/logger"

	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	httpClientKey  struct{}
	tokenEngineKey struct{}
	requestUserKey struct{}
	httpRequestKey struct{}
	httpWriterKey  struct{}
	responseKey    struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	if cfg, ok := ctx.Value(configsKey{}).(config.Configs); ok {
		return cfg
	}
	return config.Configs{}
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}
	return logger.NewLogger(logger.SILENCE)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

func DB(ctx context.Context) *gorm.DB {
	if db, ok := ctx.Value(dbKey{}).(*gorm.DB); ok {
		return db
	}
	return nil
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}
	return http.DefaultClient
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	if engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine); ok {
		return engine
	}
	return nil
}

func WithRequestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, requestUserKey{}, userID)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(requestUserKey{}).(string); ok {
		return id
	}
	return ""
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	if r, ok := ctx.Value(httpRequestKey{}).(*http.Request); ok {
		return r
	}
	return nil
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	if w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter); ok {
		return w
	}
	return nil
}

type holder struct {
	response any
	err      error
}

// WithResult prepares a mutable slot carrying the handler result through the
// middleware chain. The router installs it once per request.
func WithResult(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &holder{})
}

func SetResponse(ctx context.Context, resp any) {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		h.response = resp
	}
}

func Response(ctx context.Context) any {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		return h.response
	}
	return nil
}

func SetError(ctx context.Context, err error) {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		h.err = err
	}
}

func Error(ctx context.Context) error {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		return h.err
	}
	return nil
}
