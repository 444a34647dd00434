package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// randomToken genera un string base64url criptográficamente aleatorio.
// 32 bytes -> 43 caracteres, suficiente entropía para la session key y
// para el code verifier de PKCE (RFC 7636 §4.1).
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// challengeS256 calcula el code challenge S256 a partir del verifier.
func challengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// newSession genera la terna key/verifier/challenge de una sesión.
func newSession() (Session, error) {
	key, err := randomToken()
	if err != nil {
		return Session{}, err
	}
	verifier, err := randomToken()
	if err != nil {
		return Session{}, err
	}
	return Session{
		Key:       key,
		Verifier:  verifier,
		Challenge: challengeS256(verifier),
	}, nil
}
