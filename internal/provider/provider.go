// Package provider contains the closed set of platform adapters and the
// registry that resolves platform identifiers to them.
//
// Each adapter is a pure request builder plus response parser conforming to
// relay.Provider; adding a platform means adding a subpackage and one line in
// the registry. Nothing in the session store or the exchange engine changes.
package provider

// Credentials son las credenciales por plataforma cargadas desde el entorno
// al arrancar. El ClientSecret nunca se serializa hacia afuera.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Scopes overrides the platform's default scope set when non-empty.
	Scopes []string
}
