package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugsnap/backend/config"

	"github.com/coreos/go-oidc/v3/oidc"
)

type oidcService struct {
	provider *oidc.Provider

	name      string
	clientID  string
	idField   string
	nameField string
}

func NewOIDCService(ctx context.Context, cfg config.OIDCConfigs) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return &oidcService{
		provider:  provider,
		name:      cfg.Name,
		clientID:  cfg.ClientID,
		idField:   cfg.IDField,
		nameField: cfg.NameField,
	}, nil
}

func (s *oidcService) Service() string {
	return s.name
}

func (s *oidcService) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.provider.Verifier(&oidc.Config{ClientID: s.clientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, errors.New("invalid id token")
	}

	id, ok := profile[s.idField].(string)
	if !ok {
		return OAuth2User{}, fmt.Errorf("invalid id field %s", s.idField)
	}

	username, _ := profile[s.nameField].(string)
	email, _ := profile["email"].(string)

	return OAuth2User{ID: id, Username: username, Email: email}, nil
}
