// Package relay contains the authorization-session and token-exchange core.
//
// The relay sits between a browser, an upstream platform (Twitch, YouTube,
// Kick) and a client application: it builds the provider authorization
// redirect bound to a single-use session, performs the code-for-token
// exchange with the provider's client secret, and normalizes the provider's
// response into one uniform shape. The client application never sees the
// client secret nor the PKCE verifier.
package relay

// GrantType is the OAuth2 token-request mode.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
)

// GrantRequest is the ephemeral input to the exchange engine. Not persisted.
type GrantRequest struct {
	GrantType GrantType

	// SessionKey is the `state` value echoed back by the provider.
	// Required for authorization_code.
	SessionKey string

	// Code is the authorization code. Required for authorization_code.
	Code string

	// RefreshToken is required for refresh_token.
	RefreshToken string
}

// Token is the normalized success payload of a token exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Scopes       []string
	TokenType    string
}

// RedirectResult is the outcome of building an authorization redirect.
type RedirectResult struct {
	// URL is the provider authorization URL the browser must be sent to.
	URL string

	// SessionKey identifies the freshly minted session; it is already
	// embedded in URL as the `state` parameter.
	SessionKey string
}
