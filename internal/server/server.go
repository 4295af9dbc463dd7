// package server contains middleware & handlers for the playlist comparison web service
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/tasks"
	"github.com/desertthunder/pldiff/internal/web"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the comparison service.
// Implementations handle specific endpoints (login, callback, API).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// AppOpts contains the dependencies of the web application.
type AppOpts struct {
	Auth   services.Authenticator
	Engine *tasks.CompareEngine
	Logger *log.Logger
}

// NewApp builds the router for `pldiff serve`:
//
//	GET  /                         → index page
//	GET  /login                    → redirect to the authorization endpoint
//	GET  /callback                 → code exchange, then redirect to /?access_token=
//	GET  /api/playlists            → library listing
//	POST /api/compare              → reconciliation
//	GET  /api/playlists/{id}/cover → cover image lookup
func NewApp(opts AppOpts) *BasicRouter {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(opts.Logger))

	router.Handler(NewLoginHandler(opts.Auth))
	router.Handler(NewCallbackHandler(opts.Auth, opts.Logger))
	NewAPIHandler(opts.Engine, opts.Logger).Register(router)
	router.Handle(http.MethodGet, "/{$}", web.Index())

	return router
}

// NewHTTPServer wraps handler in an [http.Server] listening on addr.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
