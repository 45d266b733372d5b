package controllers

import (
	"net/http"
	"strings"
)

// En-têtes htmx utilisés par les handlers
const (
	HXRequest  = "HX-Request"
	HXRetarget = "HX-Retarget"
	HXReswap   = "HX-Reswap"
)

// IsHTMX indique une requête envoyée par htmx
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HXRequest) == "true"
}

// wantsJSON indique un client qui attend du JSON (AJAX ou API)
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	xreq := r.Header.Get("X-Requested-With")
	return strings.Contains(accept, "application/json") || xreq == "XMLHttpRequest"
}

// sendsJSON indique un corps de requête JSON
func sendsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
