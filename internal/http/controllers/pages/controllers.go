// Package pages serves the relay's static HTML responses.
package pages

import "net/http"

// landingPage se sirve en la raíz; un guiño para quien llega sin rumbo.
const landingPage = `This is an open field west of a white house, with a boarded front door.
There is a small mailbox here.
>`

// finalisePage cierra el popup del flujo OAuth en el browser.
const finalisePage = `OAuth process finished. This window should close momentarily.`

// Controllers agrupa las páginas estáticas.
type Controllers struct{}

// NewControllers creates the pages controllers aggregator.
func NewControllers() *Controllers {
	return &Controllers{}
}

// Landing handles GET /.
func (c *Controllers) Landing(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, landingPage)
}

// Finalise handles GET /v1/{platform}/finalise.
func (c *Controllers) Finalise(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, finalisePage)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
