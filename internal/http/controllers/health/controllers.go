// Package health exposes the readiness endpoint.
package health

import (
	"net/http"

	"github.com/dropDatabas3/relay/internal/http/helpers"
	"github.com/dropDatabas3/relay/internal/observability/logger"
	"github.com/dropDatabas3/relay/internal/session"
)

// Controllers agrupa los endpoints de salud.
type Controllers struct {
	sessions session.Store
}

// NewControllers creates the health controllers aggregator.
func NewControllers(sessions session.Store) *Controllers {
	return &Controllers{sessions: sessions}
}

type readyzResponse struct {
	Status       string `json:"status"`
	SessionStore string `json:"session_store"`
}

// Readyz handles GET /readyz. Falla si el backend del session store no
// responde: sin store no hay relay.
func (c *Controllers) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := c.sessions.Ping(r.Context()); err != nil {
		logger.From(r.Context()).Warn("session store ping failed", logger.Err(err))
		helpers.WriteJSON(w, http.StatusServiceUnavailable, readyzResponse{
			Status:       "unavailable",
			SessionStore: "down",
		})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, readyzResponse{Status: "ok", SessionStore: "ok"})
}
