package relay

import "context"

// ExchangeService performs the upstream token exchange.
type ExchangeService interface {
	// Exchange validates session correlation (for authorization_code),
	// calls the provider token endpoint and normalizes the result. Every
	// failure carries a Kind; none are retried here — retrying a consumed
	// session or a malformed upstream response cannot succeed, and retry
	// policy for transport failures belongs to the caller.
	Exchange(ctx context.Context, platform string, grant GrantRequest) (*Token, error)
}
