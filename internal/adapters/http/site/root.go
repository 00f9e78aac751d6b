// Package site serves the embedded registration client.
package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register serves the embedded client for every path not claimed by another
// route. "/" serves index.html.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	files := http.FileServer(FS())
	r.Handle("/*", files)
}
