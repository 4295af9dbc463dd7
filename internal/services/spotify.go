// Spotify Web API implementation of [Library]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/shared"
	"golang.org/x/time/rate"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// maxErrorBody caps how much of an upstream error body is kept.
const maxErrorBody = 64 << 10

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
//
// ID is a pointer because local files are returned with "id": null.
type SpotifyTrack struct {
	ID      *string         `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for entries whose track was removed from the catalog.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks is one page of a playlist's entries.
type SpotifyPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Images       []SpotifyImage `json:"images"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyPaginatedPlaylists represents a page of the user's playlists.
type SpotifyPaginatedPlaylists struct {
	Items []SpotifySimplePlaylist `json:"items"`
	Total int                     `json:"total"`
	Next  *string                 `json:"next"`
}

// SpotifyService talks to the Spotify Web API on behalf of whoever holds the token passed to each call.
//
// It keeps no credentials of its own, so one instance can serve many sessions.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	BaseURL           string       // defaults to the public Web API
	HTTPClient        *http.Client // defaults to [http.DefaultClient]
	RequestsPerSecond float64      // 0 disables throttling
	Logger            *log.Logger
}

// limiterBurst lets both fetches of a comparison start together.
const limiterBurst = 2

// NewSpotifyService creates a new Spotify Web API client.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), limiterBurst)
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// do performs an authenticated GET against the Web API and decodes the JSON body into result.
func (s *SpotifyService) do(ctx context.Context, token models.AccessToken, endpoint string, result any) error {
	if token.Empty() {
		return fmt.Errorf("%w: missing access token", shared.ErrNotAuthenticated)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", token.Bearer())
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &shared.NetworkError{Op: "GET " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	s.logger.Debug("spotify request", "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &shared.UpstreamAuthError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// UserPlaylists retrieves the first page of the current user's playlists with one request.
//
// Callers populating a selection list should degrade to an empty list on error.
func (s *SpotifyService) UserPlaylists(ctx context.Context, token models.AccessToken) ([]models.PlaylistSummary, error) {
	var response SpotifyPaginatedPlaylists
	if err := s.do(ctx, token, "/me/playlists", &response); err != nil {
		return nil, err
	}

	playlists := make([]models.PlaylistSummary, 0, len(response.Items))
	for _, sp := range response.Items {
		summary := models.PlaylistSummary{
			ID:          sp.ID,
			Name:        sp.Name,
			ExternalURL: sp.ExternalURLs.Spotify,
		}
		if len(sp.Images) > 0 {
			summary.ImageURL = sp.Images[0].URL
		}
		playlists = append(playlists, summary)
	}

	return playlists, nil
}

// Tracks retrieves a playlist's entries with one request and normalizes them in service order.
//
// Removed tracks (null entries) and tracks without an ID are dropped.
// Continuation cursors are not followed, so only the first page is returned.
func (s *SpotifyService) Tracks(ctx context.Context, playlistID string, token models.AccessToken) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var page SpotifyPlaylistTracks
	if err := s.do(ctx, token, endpoint, &page); err != nil {
		return nil, err
	}

	if page.Next != nil {
		s.logger.Debug("playlist truncated to first page", "playlist", playlistID, "returned", len(page.Items), "total", page.Total)
	}

	tracks := make([]models.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track == nil || item.Track.ID == nil || *item.Track.ID == "" {
			continue
		}
		tracks = append(tracks, Normalize(*item.Track))
	}

	return tracks, nil
}

// CoverImage returns the URL of the playlist's first image.
//
// The lookup is best effort: any failure reports ok=false and is only logged.
func (s *SpotifyService) CoverImage(ctx context.Context, playlistID string, token models.AccessToken) (string, bool) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var playlist struct {
		Images []SpotifyImage `json:"images"`
	}
	if err := s.do(ctx, token, endpoint, &playlist); err != nil {
		s.logger.Debug("cover image unavailable", "playlist", playlistID, "error", err)
		return "", false
	}

	if len(playlist.Images) == 0 || playlist.Images[0].URL == "" {
		return "", false
	}

	return playlist.Images[0].URL, true
}
