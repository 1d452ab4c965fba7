// Package site serves the embedded live leaderboard page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded site routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded leaderboard page at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
