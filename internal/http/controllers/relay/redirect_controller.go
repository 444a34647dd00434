package relay

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/relay/internal/http/helpers"
	"github.com/dropDatabas3/relay/internal/metrics"
	"github.com/dropDatabas3/relay/internal/observability/logger"
	core "github.com/dropDatabas3/relay/internal/relay"
)

// RedirectController handles GET /v1/{platform}/redirect.
type RedirectController struct {
	service core.RedirectService
}

// NewRedirectController creates a new redirect controller.
func NewRedirectController(service core.RedirectService) *RedirectController {
	return &RedirectController{service: service}
}

// Redirect mints a session and sends the browser to the provider.
func (c *RedirectController) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform := chi.URLParam(r, "platform")

	result, err := c.service.Redirect(ctx, platform)
	if err != nil {
		helpers.WriteRelayError(w, err)
		return
	}

	metrics.ObserveSessionCreated(platform)
	logger.From(ctx).Debug("redirecting to provider", logger.Platform(platform))

	// 307 preserva el método; la session key ya viaja como `state` en la URL.
	http.Redirect(w, r, result.URL, http.StatusTemporaryRedirect)
}
