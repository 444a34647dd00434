// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/dropDatabas3/relay/internal/relay"
)

// apiError es el cuerpo de error uniforme del relay. La misma forma para
// todas las plataformas, sin importar cómo formatee errores cada provider.
type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	UpstreamStatus   int    `json:"upstream_status,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// WriteJSON: respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError escribe un error con code y descripción estables.
func WriteError(w http.ResponseWriter, status int, code, desc string) {
	rid := w.Header().Get("X-Request-ID")
	WriteJSON(w, status, apiError{Error: code, ErrorDescription: desc, RequestID: rid})
}

// WriteRelayError serializa un error del core una sola vez, en esta frontera.
// Errores no tipados se colapsan a internal_error sin filtrar detalle.
func WriteRelayError(w http.ResponseWriter, err error) {
	re, ok := relay.AsError(err)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	rid := w.Header().Get("X-Request-ID")
	WriteJSON(w, StatusForKind(re.Kind), apiError{
		Error:            string(re.Kind),
		ErrorDescription: re.Description,
		UpstreamStatus:   re.UpstreamStatus,
		RequestID:        rid,
	})
}

// StatusForKind mapea la taxonomía del core a status HTTP.
func StatusForKind(kind relay.Kind) int {
	switch kind {
	case relay.KindUnknownPlatform:
		return http.StatusNotFound
	case relay.KindInvalidSession, relay.KindUnsupportedGrantType, relay.KindInvalidGrant:
		return http.StatusBadRequest
	case relay.KindUpstreamUnreachable,
		relay.KindMalformedUpstreamResponse,
		relay.KindUpstreamReportedError,
		relay.KindUpstreamStatusError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
