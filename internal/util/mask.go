// Package util contiene helpers chicos sin dueño claro.
package util

// MaskKey acorta un secreto para logs: suficiente prefijo para correlacionar
// un flujo, nunca suficiente para reutilizar la key.
func MaskKey(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:6] + "…"
}
