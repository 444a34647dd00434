// Package twitch implements the Twitch platform adapter.
// Twitch follows OAuth 2.0 with PKCE but reports token-endpoint errors as
// {"status": N, "message": "..."} instead of the RFC 6749 error shape.
package twitch

import (
	"net/url"
	"strings"

	"github.com/dropDatabas3/relay/internal/relay"
)

const (
	authEndpoint  = "https://id.twitch.tv/oauth2/authorize"
	tokenEndpoint = "https://id.twitch.tv/oauth2/token"
)

// Provider is the Twitch adapter.
type Provider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string
}

// New creates a Twitch adapter.
func New(clientID, clientSecret, redirectURL string, scopes []string) *Provider {
	if len(scopes) == 0 {
		scopes = []string{"channel:read:stream_key"}
	}
	return &Provider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		scopes:       scopes,
	}
}

func (p *Provider) Platform() string { return "twitch" }

// AuthorizationURL builds the Twitch authorization URL.
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

// Normalize maps the Twitch response; the shared normalizer already
// understands Twitch's {status, message} error format and its scope array.
func (p *Provider) Normalize(status int, body []byte) (*relay.Token, error) {
	return relay.Normalize(status, body)
}
