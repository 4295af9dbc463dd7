package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// DefaultScopes are requested when the configuration does not list any.
var DefaultScopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopeUserTopRead,
}

// Endpoint returns the authorize and token endpoints under accountsURL.
//
// An empty accountsURL selects the public Spotify accounts service.
func Endpoint(accountsURL string) oauth2.Endpoint {
	if accountsURL == "" {
		return oauth2.Endpoint{
			AuthURL:   spotifyauth.AuthURL,
			TokenURL:  spotifyauth.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}

	base := strings.TrimRight(accountsURL, "/")
	return oauth2.Endpoint{
		AuthURL:   base + "/authorize",
		TokenURL:  base + "/api/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// BuildLoginURL returns the authorization URL the user is redirected to.
//
// The result depends only on its arguments.
func BuildLoginURL(clientID, redirectURI string, scopes []string) string {
	config := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes,
		Endpoint:    Endpoint(""),
	}
	return config.AuthCodeURL("")
}

// Exchanger trades one-time authorization codes for access tokens.
type Exchanger struct {
	config     *oauth2.Config
	creds      shared.SpotifyConfig
	httpClient *http.Client
}

// NewExchanger creates an [Exchanger] for the given credentials.
//
// Credentials are not validated here; [Exchanger.Exchange] reports missing values the same way the token endpoint would.
func NewExchanger(creds shared.SpotifyConfig, accountsURL string, client *http.Client) *Exchanger {
	if client == nil {
		client = http.DefaultClient
	}

	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &Exchanger{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       scopes,
			Endpoint:     Endpoint(accountsURL),
		},
		creds:      creds,
		httpClient: client,
	}
}

// LoginURL returns the authorization URL, carrying state when it is non-empty.
func (e *Exchanger) LoginURL(state string) string {
	return e.config.AuthCodeURL(state)
}

// Exchange issues a single authorization_code grant request and returns the access token.
//
// Errors:
//   - [shared.ErrMissingCode] when code is empty (no request is made)
//   - [*shared.UpstreamAuthError] when the token endpoint answers with a non-success status
//   - [*shared.NetworkError] when the transport fails
//
// Nothing is retried.
func (e *Exchanger) Exchange(ctx context.Context, code string) (models.AccessToken, error) {
	if code == "" {
		return models.AccessToken{}, shared.ErrMissingCode
	}

	tokenURL := e.config.Endpoint.TokenURL
	if missing := e.creds.Missing(); len(missing) > 0 {
		return models.AccessToken{}, &shared.UpstreamAuthError{
			Endpoint: tokenURL,
			Status:   http.StatusBadRequest,
			Body:     fmt.Sprintf(`{"error":"invalid_request","error_description":"missing %s"}`, strings.Join(missing, ", ")),
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return models.AccessToken{}, classifyExchangeError(tokenURL, err)
	}

	return models.AccessToken{Value: token.AccessToken, Expiry: token.Expiry}, nil
}

func classifyExchangeError(endpoint string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &shared.UpstreamAuthError{Endpoint: endpoint, Status: status, Body: string(retrieveErr.Body)}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &shared.NetworkError{Op: "token exchange", Err: err}
	}

	return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
}
