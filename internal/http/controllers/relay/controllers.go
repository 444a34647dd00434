// Package relay contains controllers for the relay endpoints.
package relay

import core "github.com/dropDatabas3/relay/internal/relay"

// Controllers agrupa los controllers del relay.
type Controllers struct {
	Redirect  *RedirectController
	Token     *TokenController
	Providers *ProvidersController
}

// NewControllers creates the relay controllers aggregator.
func NewControllers(s core.Services, registry core.Registry) *Controllers {
	return &Controllers{
		Redirect:  NewRedirectController(s.Redirect),
		Token:     NewTokenController(s.Exchange),
		Providers: NewProvidersController(registry),
	}
}
