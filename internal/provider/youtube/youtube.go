// Package youtube implements the YouTube platform adapter on top of Google's
// OAuth 2.0 endpoints. Google only issues a refresh token when the consent
// screen runs with access_type=offline, so the authorization URL always asks
// for it.
package youtube

import (
	"net/url"
	"strings"

	"github.com/dropDatabas3/relay/internal/relay"
)

const (
	authEndpoint  = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint = "https://oauth2.googleapis.com/token"
)

// Provider is the YouTube adapter.
type Provider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string
}

// New creates a YouTube adapter.
func New(clientID, clientSecret, redirectURL string, scopes []string) *Provider {
	if len(scopes) == 0 {
		scopes = []string{"https://www.googleapis.com/auth/youtube.readonly"}
	}
	return &Provider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		scopes:       scopes,
	}
}

func (p *Provider) Platform() string { return "youtube" }

// AuthorizationURL builds the Google authorization URL.
func (p *Provider) AuthorizationURL(state, challenge string) string {
	u, _ := url.Parse(authEndpoint)
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURL)
	q.Set("scope", strings.Join(p.scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	u.RawQuery = q.Encode()
	return u.String()
}

// TokenRequest builds the token-endpoint form.
func (p *Provider) TokenRequest(grant relay.GrantRequest, verifier string) (string, url.Values) {
	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", p.clientSecret)
	form.Set("grant_type", string(grant.GrantType))

	switch grant.GrantType {
	case relay.GrantAuthorizationCode:
		form.Set("code", grant.Code)
		form.Set("redirect_uri", p.redirectURL)
		form.Set("code_verifier", verifier)
	case relay.GrantRefreshToken:
		form.Set("refresh_token", grant.RefreshToken)
	}

	return tokenEndpoint, form
}

// Normalize maps the Google response. Google signals revoked or expired
// refresh tokens as error=invalid_grant, which the shared normalizer rewrites.
func (p *Provider) Normalize(status int, body []byte) (*relay.Token, error) {
	return relay.Normalize(status, body)
}
