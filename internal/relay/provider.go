package relay

import "net/url"

// Provider is the per-platform capability set. Implementations live under
// internal/provider and are pure request builders plus a response parser;
// all HTTP goes through the exchange engine.
type Provider interface {
	// Platform returns the platform identifier ("twitch", "youtube", ...).
	Platform() string

	// AuthorizationURL builds the provider authorization URL carrying the
	// session key as `state` and the S256 PKCE challenge.
	AuthorizationURL(state, challenge string) string

	// TokenRequest builds the upstream token-endpoint form for the grant.
	// verifier is the PKCE verifier from the consumed session; empty for
	// refresh_token grants.
	TokenRequest(grant GrantRequest, verifier string) (endpoint string, form url.Values)

	// Normalize maps the upstream status/body into the uniform result.
	Normalize(status int, body []byte) (*Token, error)
}

// Registry resolves platform identifiers to providers. Implementations are
// read-only after construction and safe for unlimited concurrent readers.
type Registry interface {
	// Resolve returns the provider for the platform, or an Error of kind
	// KindUnknownPlatform.
	Resolve(platform string) (Provider, error)

	// List returns the configured platform names, sorted.
	List() []string
}
