// Package site serves the embedded upload page.
package site

import (
	"context"
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

const page = "static/index.html"

// Register attaches the upload page to mux at the exact root path; other
// paths stay unmatched.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /{$}", NewRootHandler())
}

// RootHandler serves the upload page. The page posts the chosen file to
// /v1/chart and shows the returned image.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// ServeHTTP writes index.html.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(w, r, static, page)
}
