package relay

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the relay can produce. All kinds are terminal
// for the current request; the relay never retries internally.
type Kind string

const (
	KindUnknownPlatform           Kind = "unknown_platform"
	KindInvalidSession            Kind = "invalid_session"
	KindUnsupportedGrantType      Kind = "unsupported_grant_type"
	KindUpstreamUnreachable       Kind = "upstream_unreachable"
	KindMalformedUpstreamResponse Kind = "malformed_upstream_response"
	KindUpstreamReportedError     Kind = "upstream_reported_error"
	KindUpstreamStatusError       Kind = "upstream_status_error"
	KindInvalidGrant              Kind = "invalid_grant"
)

// Error is the relay's structured error. Description is client-facing and must
// never contain a client secret or a PKCE verifier.
type Error struct {
	Kind           Kind
	Description    string
	UpstreamStatus int // 0 cuando no hubo respuesta upstream
}

func (e *Error) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("%s (upstream %d): %s", e.Kind, e.UpstreamStatus, e.Description)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Errorf builds an Error with a formatted description.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Description: fmt.Sprintf(format, args...)}
}

// AsError extracts a relay *Error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// KindOf returns the error's Kind, or "" for non-relay errors.
func KindOf(err error) Kind {
	if re, ok := AsError(err); ok {
		return re.Kind
	}
	return ""
}
