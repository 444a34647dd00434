// Package relay contains the wire DTOs for the relay endpoints.
package relay

import core "github.com/dropDatabas3/relay/internal/relay"

// TokenRequest is the body of POST /v1/{platform}/token. It decodes from
// JSON or from an HTML form with the same field names.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	State        string `json:"state"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is the normalized success body, identical for every platform.
type TokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in,omitempty"`
	Scope        []string `json:"scope,omitempty"`
	TokenType    string   `json:"token_type,omitempty"`
}

// FromToken maps the core token to the wire shape.
func FromToken(t *core.Token) TokenResponse {
	return TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		Scope:        t.Scopes,
		TokenType:    t.TokenType,
	}
}

// ProvidersResponse lists the configured platforms.
type ProvidersResponse struct {
	Platforms []string `json:"platforms"`
}
