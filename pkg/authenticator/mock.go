package authenticator

import "context"

type MockOAuth2Service struct {
	ServiceFunc       func() string
	VerifyIDTokenFunc func(ctx context.Context, rawIDToken string) (OAuth2User, error)
}

func (m *MockOAuth2Service) Service() string {
	if m.ServiceFunc != nil {
		return m.ServiceFunc()
	}
	return "mock"
}

func (m *MockOAuth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}
	panic("not implemented")
}
