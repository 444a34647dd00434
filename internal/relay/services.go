package relay

import (
	"net/http"

	"github.com/dropDatabas3/relay/internal/session"
)

// Doer performs upstream HTTP requests. *http.Client satisfies it; tests
// inject stubs to assert on upstream traffic.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Services agrupa los servicios del relay.
type Services struct {
	Redirect RedirectService
	Exchange ExchangeService
}

// Deps contains the shared dependencies for the relay services.
type Deps struct {
	Registry Registry
	Sessions session.Store
	HTTP     Doer
}

// NewServices wires the relay services.
func NewServices(d Deps) Services {
	return Services{
		Redirect: NewRedirectService(d),
		Exchange: NewExchangeService(d),
	}
}
