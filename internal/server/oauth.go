package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
)

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token models.AccessToken
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles OAuth2 callback requests for the CLI login flow.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	auth        services.Authenticator
	state       string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a new OAuth handler that exchanges codes with auth and expects state on the callback.
// The state token should be random for CSRF protection.
func NewOAuthHandler(auth services.Authenticator, state string) *OAuthHandler {
	return &OAuthHandler{
		auth:       auth,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"GET /callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates state parameter, exchanges authorization code for a token, and sends the result through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		err := fmt.Errorf("%w: %s %s", shared.ErrMissingCode, query.Get("error"), query.Get("error_description"))
		h.Send(OAuthResult{err: err})
		http.Error(w, "Authorization failed", shared.HTTPStatus(err))
		return
	}

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", shared.HTTPStatus(err))
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, successPage)
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// LoginHandler redirects the browser to the authorization endpoint.
type LoginHandler struct {
	auth services.Authenticator
}

func NewLoginHandler(auth services.Authenticator) *LoginHandler {
	return &LoginHandler{auth: auth}
}

func (h *LoginHandler) Routes() []string {
	return []string{"GET /login"}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.auth.LoginURL(""), http.StatusFound)
}

// CallbackHandler completes the web login flow.
//
// A successful exchange redirects to the application root with the token in the access_token query parameter;
// the page is expected to remove it from the address bar on load. Failures are reported as JSON.
type CallbackHandler struct {
	auth   services.Authenticator
	logger *log.Logger
}

func NewCallbackHandler(auth services.Authenticator, logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CallbackHandler{auth: auth, logger: logger}
}

func (h *CallbackHandler) Routes() []string {
	return []string{"GET /callback"}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn("code exchange failed", "error", err)
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/?access_token="+url.QueryEscape(token.Value), http.StatusFound)
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
