// Package web serves the single-page front end for `pldiff serve`.
//
// # Flow
//
//  1. The user follows /login and returns through /callback, which redirects to /?access_token=...
//  2. The page reads access_token, removes it from the address bar with history.replaceState,
//     and keeps it in sessionStorage for the lifetime of the tab.
//  3. The library is loaded from GET /api/playlists to fill the private pickers.
//  4. Submitting the form posts both references to POST /api/compare and renders
//     the common, only1 and only2 lists. Covers come from GET /api/playlists/{id}/cover.
//
// The token is sent as a bearer header on every API call and never stored server-side.
package web

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

// Index returns the handler for the application root.
func Index() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.WriteHeader(http.StatusOK)
		w.Write(indexHTML)
	})
}
