package relay

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/relay/internal/http/dto/relay"
	"github.com/dropDatabas3/relay/internal/http/helpers"
	"github.com/dropDatabas3/relay/internal/metrics"
	core "github.com/dropDatabas3/relay/internal/relay"
)

// TokenController handles POST /v1/{platform}/token.
type TokenController struct {
	service core.ExchangeService
}

// NewTokenController creates a new token controller.
func NewTokenController(service core.ExchangeService) *TokenController {
	return &TokenController{service: service}
}

// Token performs the token exchange for an authorization code or a refresh
// token and returns the normalized body.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform := chi.URLParam(r, "platform")

	// Mismo límite que el draft original del listener: 16KB sobran para
	// cualquier grant request legítimo.
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)

	req, ok := c.readRequest(w, r)
	if !ok {
		return
	}

	grant := core.GrantRequest{
		GrantType:    core.GrantType(req.GrantType),
		SessionKey:   req.State,
		Code:         req.Code,
		RefreshToken: req.RefreshToken,
	}

	token, err := c.service.Exchange(ctx, platform, grant)
	if err != nil {
		metrics.ObserveExchange(platform, req.GrantType, string(core.KindOf(err)))
		helpers.WriteRelayError(w, err)
		return
	}

	metrics.ObserveExchange(platform, req.GrantType, "success")
	helpers.WriteJSON(w, http.StatusOK, dto.FromToken(token))
}

// readRequest decodifica el body como JSON o como form, según Content-Type.
func (c *TokenController) readRequest(w http.ResponseWriter, r *http.Request) (dto.TokenRequest, bool) {
	var req dto.TokenRequest

	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.Contains(ct, "application/json"):
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			helpers.WriteError(w, http.StatusBadRequest, "bad_request", "request body is not valid JSON")
			return req, false
		}
	default:
		if err := r.ParseForm(); err != nil {
			helpers.WriteError(w, http.StatusBadRequest, "bad_request", "request body is not a valid form")
			return req, false
		}
		req.GrantType = r.PostFormValue("grant_type")
		req.Code = r.PostFormValue("code")
		req.State = r.PostFormValue("state")
		req.RefreshToken = r.PostFormValue("refresh_token")
	}

	if strings.TrimSpace(req.GrantType) == "" {
		helpers.WriteError(w, http.StatusBadRequest, "bad_request", "grant_type is required")
		return req, false
	}

	// Campos obligatorios por grant: un request incompleto se rechaza acá,
	// sin gastar un round-trip contra el provider. Grant types desconocidos
	// siguen de largo; el engine los clasifica.
	switch core.GrantType(req.GrantType) {
	case core.GrantAuthorizationCode:
		if strings.TrimSpace(req.Code) == "" {
			helpers.WriteError(w, http.StatusBadRequest, "bad_request", "code is required for authorization_code")
			return req, false
		}
		if strings.TrimSpace(req.State) == "" {
			helpers.WriteError(w, http.StatusBadRequest, "bad_request", "state is required for authorization_code")
			return req, false
		}
	case core.GrantRefreshToken:
		if strings.TrimSpace(req.RefreshToken) == "" {
			helpers.WriteError(w, http.StatusBadRequest, "bad_request", "refresh_token is required for refresh_token")
			return req, false
		}
	}
	return req, true
}
