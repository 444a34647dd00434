// Package router arma el http.Handler del relay.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/relay/internal/http/controllers/health"
	pagesctrl "github.com/dropDatabas3/relay/internal/http/controllers/pages"
	relayctrl "github.com/dropDatabas3/relay/internal/http/controllers/relay"
	mw "github.com/dropDatabas3/relay/internal/http/middlewares"
	"github.com/dropDatabas3/relay/internal/metrics"
	"github.com/dropDatabas3/relay/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Relay  *relayctrl.Controllers
	Pages  *pagesctrl.Controllers
	Health *healthctrl.Controllers

	// Limiter es opcional; nil desactiva el rate limiting.
	Limiter rate.Limiter
}

// New construye el router con la cadena de middlewares estándar.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithLogging())

	r.Get("/", d.Pages.Landing)
	r.Get("/readyz", d.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/providers", d.Relay.Providers.List)

		r.Route("/{platform}", func(r chi.Router) {
			r.Use(mw.WithRateLimit(d.Limiter))

			// redirect y token llevan session keys o tokens: nunca cacheables.
			r.With(mw.WithNoStore()).Get("/redirect", d.Relay.Redirect.Redirect)
			r.Get("/finalise", d.Pages.Finalise)
			r.With(mw.WithNoStore()).Post("/token", d.Relay.Token.Token)
		})
	})

	return r
}
