package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/logger"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
	UserID   string `json:"user_id,omitempty"`
}

func newTestRouter() *Router {
	return New(nil, config.Configs{
		Auth: config.AuthConfigs{TokenSecret: "secret"},
	}, logger.NewLogger(logger.SILENCE))
}

func serve(r *Router, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	r.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) response {
	var envelope response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func Test_Router_bindsBodyAndQuery(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Greeting: "hello " + req.Name}, nil
	})
	GET(r, "/search", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		require.Equal(t, 10, req.Limit)
		return &echoResponse{Greeting: "found " + req.Name}, nil
	})

	recorder := serve(r, httptest.NewRequest(http.MethodPost, "/echo",
		strings.NewReader(`{"name": "world"}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	require.Zero(t, envelope.Code)
	require.Equal(t, "hello world", envelope.Data.(map[string]any)["greeting"])

	recorder = serve(r, httptest.NewRequest(http.MethodGet, "/search?name=bug&limit=10", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	envelope = decodeEnvelope(t, recorder)
	require.Equal(t, "found bug", envelope.Data.(map[string]any)["greeting"])
}

func Test_Router_rejectsWrongMethod(t *testing.T) {
	r := newTestRouter()
	POST(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	recorder := serve(r, httptest.NewRequest(http.MethodGet, "/echo", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func Test_Router_mapsErrorCodes(t *testing.T) {
	r := newTestRouter()
	GET(r, "/private", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Please sign in")
	})
	GET(r, "/broken", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.Unknown
	})

	recorder := serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	envelope := decodeEnvelope(t, recorder)
	require.Equal(t, int64(errorx.Unauthenticated), envelope.Code)
	require.Equal(t, "Please sign in", envelope.Error)

	recorder = serve(r, httptest.NewRequest(http.MethodGet, "/broken", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func Test_Router_beforeMiddlewareReplacesContext(t *testing.T) {
	r := newTestRouter()

	branch := r.Branch()
	branch.Before(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, "user-id"), nil
	})
	GET(branch, "/me", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{UserID: xcontext.RequestUserID(ctx)}, nil
	})

	// The branch must not leak its middleware back to the parent.
	GET(r, "/anonymous", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{UserID: xcontext.RequestUserID(ctx)}, nil
	})

	recorder := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	envelope := decodeEnvelope(t, recorder)
	require.Equal(t, "user-id", envelope.Data.(map[string]any)["user_id"])

	recorder = serve(r, httptest.NewRequest(http.MethodGet, "/anonymous", nil))
	envelope = decodeEnvelope(t, recorder)
	require.Nil(t, envelope.Data.(map[string]any)["user_id"])
}

func Test_Router_beforeMiddlewareShortCircuits(t *testing.T) {
	r := newTestRouter()
	r.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "Please sign in")
	})

	handlerCalled := false
	GET(r, "/private", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		handlerCalled = true
		return &echoResponse{}, nil
	})

	recorder := serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.False(t, handlerCalled)
}
