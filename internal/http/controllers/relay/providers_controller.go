package relay

import (
	"net/http"

	dto "github.com/dropDatabas3/relay/internal/http/dto/relay"
	"github.com/dropDatabas3/relay/internal/http/helpers"
	core "github.com/dropDatabas3/relay/internal/relay"
)

// ProvidersController handles GET /v1/providers.
type ProvidersController struct {
	registry core.Registry
}

// NewProvidersController creates a new providers controller.
func NewProvidersController(registry core.Registry) *ProvidersController {
	return &ProvidersController{registry: registry}
}

// List returns the configured platform names.
func (c *ProvidersController) List(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.ProvidersResponse{Platforms: c.registry.List()})
}
