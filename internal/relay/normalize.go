package relay

import (
	"encoding/json"
	"strings"
)

// invalidGrantDescription is the platform-agnostic rewrite for upstream
// "token no longer valid" responses. The upstream wording never reaches the
// caller for this case.
const invalidGrantDescription = "the stored authorization is no longer valid; the user must re-authorize"

// upstreamPayload is the superset of the token-response shapes the supported
// platforms produce. Twitch errors come as {status, message}; Google-style
// errors as {error, error_description}; scope arrives as an array (Twitch) or
// a space-delimited string (Google).
type upstreamPayload struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresIn        int       `json:"expires_in"`
	Scope            scopeList `json:"scope"`
	TokenType        string    `json:"token_type"`
	Error            string    `json:"error"`
	ErrorDescription string    `json:"error_description"`
	Message          string    `json:"message"`
}

// scopeList tolerates both JSON encodings of the scope field.
type scopeList []string

func (s *scopeList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = arr
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = strings.Fields(joined)
	return nil
}

// Normalize maps an upstream token-endpoint response into the uniform result.
// It is a pure function: the same (status, body) pair always yields the same
// outcome.
func Normalize(status int, body []byte) (*Token, error) {
	var p upstreamPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &Error{
			Kind:           KindMalformedUpstreamResponse,
			Description:    "unparseable upstream response: " + err.Error(),
			UpstreamStatus: status,
		}
	}

	if status == 200 {
		// Algunos providers reportan errores con status 200.
		if p.Error != "" {
			return nil, &Error{
				Kind:           KindUpstreamReportedError,
				Description:    errorText(p),
				UpstreamStatus: status,
			}
		}
		if p.AccessToken == "" {
			return nil, &Error{
				Kind:           KindMalformedUpstreamResponse,
				Description:    "upstream response has no access_token",
				UpstreamStatus: status,
			}
		}
		return &Token{
			AccessToken:  p.AccessToken,
			RefreshToken: p.RefreshToken,
			ExpiresIn:    p.ExpiresIn,
			Scopes:       p.Scope,
			TokenType:    p.TokenType,
		}, nil
	}

	if isInvalidGrant(p) {
		return nil, &Error{
			Kind:           KindInvalidGrant,
			Description:    invalidGrantDescription,
			UpstreamStatus: status,
		}
	}

	return nil, &Error{
		Kind:           KindUpstreamStatusError,
		Description:    errorText(p),
		UpstreamStatus: status,
	}
}

// isInvalidGrant detecta las formas conocidas de "el token ya no sirve":
// el message de Twitch y el code invalid_grant de los providers OAuth2
// estándar.
func isInvalidGrant(p upstreamPayload) bool {
	if strings.EqualFold(strings.TrimSpace(p.Message), "invalid refresh token") {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(p.ErrorDescription), "invalid refresh token") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(p.Error), "invalid_grant")
}

// errorText elige el texto de error más descriptivo disponible.
func errorText(p upstreamPayload) string {
	for _, s := range []string{p.ErrorDescription, p.Message, p.Error} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return "upstream returned an error without a description"
}
