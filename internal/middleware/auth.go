package middleware

import (
	"context"
	"strings"

	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/router"
	"github.com/bugsnap/backend/pkg/xcontext"
)

// VerifyAccessToken resolves the bearer token into the requesting user and
// stores the user id on the context.
func VerifyAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify the access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

// Authenticate only checks a user has been resolved before.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

func bearerToken(ctx context.Context) string {
	authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return ""
	}

	return token
}
