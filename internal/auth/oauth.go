package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jun/drivebox/internal/model"
	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrAuthExchange is returned when the authorization code could not be
// exchanged for a token set. Codes are single-use, so the caller must restart
// the consent flow rather than retry.
var ErrAuthExchange = errors.New("authorization code exchange failed")

// Service handles the OAuth2 authorization-code flow and builds authenticated
// HTTP clients from session token sets.
type Service struct {
	oauthConfig *oauth2.Config
	apiOpts     []option.ClientOption
}

// NewService creates a new Service. The oauthConfig should be constructed by
// the caller (e.g. from environment variables). Extra client options are
// applied to the userinfo API client; tests use this to point it at a fake.
func NewService(oauthConfig *oauth2.Config, apiOpts ...option.ClientOption) *Service {
	return &Service{oauthConfig: oauthConfig, apiOpts: apiOpts}
}

// Config returns the OAuth2 config.
func (s *Service) Config() *oauth2.Config {
	return s.oauthConfig
}

// AuthURL returns the URL to redirect the user to for Google consent,
// requesting offline access so a refresh token is issued on first approval.
func (s *Service) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for an access/refresh token set.
func (s *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}
	return token, nil
}

// FetchProfile retrieves the user's basic profile from the userinfo endpoint
// using the freshly exchanged token.
func (s *Service) FetchProfile(ctx context.Context, token *oauth2.Token) (model.Profile, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(s.oauthConfig.TokenSource(ctx, token)),
	}, s.apiOpts...)

	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	userinfo, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get user info: %w", err)
	}

	return model.Profile{
		ID:      userinfo.Id,
		Email:   userinfo.Email,
		Name:    userinfo.Name,
		Picture: userinfo.Picture,
	}, nil
}

// Client returns an authenticated http.Client for the session's token set.
// The token source refreshes the access token transparently when a refresh
// token is present.
func (s *Service) Client(ctx context.Context, sess *model.Session) *http.Client {
	token := &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		Expiry:       sess.TokenExpiry,
		TokenType:    "Bearer",
	}
	return oauth2.NewClient(ctx, s.oauthConfig.TokenSource(ctx, token))
}
