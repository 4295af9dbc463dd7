// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/pldiff/internal/models"
)

// MockLibrary is a test double for [services.Library]
type MockLibrary struct {
	mu           sync.Mutex
	Playlists    []models.PlaylistSummary
	PlaylistsErr error
	TrackLists   map[string][]models.Track
	TrackErrs    map[string]error
	Covers       map[string]string
	Calls        []string
	// Gate, when set, blocks every Tracks call until it is closed.
	Gate     chan struct{}
	inFlight atomic.Int32
	MaxSeen  atomic.Int32
}

func (m *MockLibrary) UserPlaylists(ctx context.Context, token models.AccessToken) ([]models.PlaylistSummary, error) {
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockLibrary) Tracks(ctx context.Context, playlistID string, token models.AccessToken) ([]models.Track, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, playlistID)
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.MaxSeen.Load()
		if n <= seen || m.MaxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if m.Gate != nil {
		<-m.Gate
	}

	if err, ok := m.TrackErrs[playlistID]; ok {
		return nil, err
	}
	return m.TrackLists[playlistID], nil
}

func (m *MockLibrary) CoverImage(ctx context.Context, playlistID string, token models.AccessToken) (string, bool) {
	url, ok := m.Covers[playlistID]
	return url, ok
}

// MockAuthenticator is a test double for [services.Authenticator]
type MockAuthenticator struct {
	URL   string
	Token models.AccessToken
	Err   error
	mu    sync.Mutex
	Codes []string
}

func (m *MockAuthenticator) LoginURL(state string) string {
	if state == "" {
		return m.URL
	}
	return m.URL + "&state=" + state
}

func (m *MockAuthenticator) Exchange(ctx context.Context, code string) (models.AccessToken, error) {
	m.mu.Lock()
	m.Codes = append(m.Codes, code)
	m.mu.Unlock()

	if m.Err != nil {
		return models.AccessToken{}, m.Err
	}
	return m.Token, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Route is a canned response served by [NewSpotifyStub].
type Route struct {
	Status int
	Body   string
}

// SpotifyStub is an httptest server answering fixed paths with canned JSON.
type SpotifyStub struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*http.Request
}

// NewSpotifyStub starts a server that answers each path in routes and 404s everything else.
//
// The server is closed when the test ends.
func NewSpotifyStub(t *testing.T, routes map[string]Route) *SpotifyStub {
	t.Helper()

	stub := &SpotifyStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.requests = append(stub.requests, r.Clone(context.Background()))
		stub.mu.Unlock()

		route, ok := routes[r.URL.Path]
		if !ok {
			route = Route{Status: http.StatusNotFound, Body: `{"error":{"status":404,"message":"Not found."}}`}
		}
		if route.Status == 0 {
			route.Status = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(route.Status)
		io.WriteString(w, route.Body)
	}))
	t.Cleanup(stub.Close)

	return stub
}

// Requests returns copies of the requests received so far.
func (s *SpotifyStub) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
