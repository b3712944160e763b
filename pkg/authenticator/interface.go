package authenticator

import (
	"context"
	"time"
)

// TokenEngine signs and verifies small payload objects as JWTs. It backs both
// the session access token and the OAuth state blob of the Jira connect flow.
type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type OAuth2User struct {
	ID       string
	Username string
	Email    string
}

// IOAuth2Service verifies a login proof issued by an external identity
// provider and resolves the provider-side user identity.
type IOAuth2Service interface {
	Service() string
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
}
