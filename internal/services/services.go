// package services defines the interfaces the comparison flow uses to reach the streaming service
package services

import (
	"context"

	"github.com/desertthunder/pldiff/internal/models"
)

// Authenticator builds login URLs and turns authorization codes into access tokens.
type Authenticator interface {
	// LoginURL returns the authorization URL; state is omitted when empty.
	LoginURL(state string) string

	// Exchange trades a one-time authorization code for an access token.
	Exchange(ctx context.Context, code string) (models.AccessToken, error)
}

// Library reads playlists on behalf of the holder of token.
type Library interface {
	// UserPlaylists lists the user's playlists for private-mode selection.
	UserPlaylists(ctx context.Context, token models.AccessToken) ([]models.PlaylistSummary, error)

	// Tracks returns the normalized tracks of a playlist in service order.
	Tracks(ctx context.Context, playlistID string, token models.AccessToken) ([]models.Track, error)

	// CoverImage returns the playlist's cover URL; failures report ok=false instead of an error.
	CoverImage(ctx context.Context, playlistID string, token models.AccessToken) (url string, ok bool)
}

var (
	_ Authenticator = (*Exchanger)(nil)
	_ Library       = (*SpotifyService)(nil)
)
