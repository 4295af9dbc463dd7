package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/services"
	"github.com/desertthunder/pldiff/internal/shared"
	"github.com/desertthunder/pldiff/internal/tasks"
)

const maxCompareBody = 64 << 10

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	First  models.PlaylistRef `json:"first"`
	Second models.PlaylistRef `json:"second"`
}

// CoverResponse is the body of GET /api/playlists/{id}/cover; URL is null when no cover exists.
type CoverResponse struct {
	URL *string `json:"url"`
}

// APIHandler serves the JSON endpoints used by the web page.
//
// Every endpoint reads the access token from the Authorization header and passes it through untouched.
type APIHandler struct {
	engine *tasks.CompareEngine
	logger *log.Logger
}

func NewAPIHandler(engine *tasks.CompareEngine, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &APIHandler{engine: engine, logger: logger}
}

// Register adds the API routes to router.
func (h *APIHandler) Register(router Router) {
	router.Handle(http.MethodGet, "/api/playlists", http.HandlerFunc(h.Playlists))
	router.Handle(http.MethodPost, "/api/compare", http.HandlerFunc(h.Compare))
	router.Handle(http.MethodGet, "/api/playlists/{id}/cover", http.HandlerFunc(h.Cover))
}

// Playlists lists the caller's library. Failures degrade to an empty array.
func (h *APIHandler) Playlists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Playlists(r.Context(), bearerToken(r)))
}

// Compare reconciles the two references in the request body.
func (h *APIHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCompareBody)).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", shared.ErrInvalidInput, err))
		return
	}

	for _, ref := range []*models.PlaylistRef{&req.First, &req.Second} {
		mode, err := services.ParseMode(string(ref.Mode))
		if err != nil {
			writeError(w, err)
			return
		}
		ref.Mode = mode
	}

	report, err := h.engine.Compare(r.Context(), bearerToken(r), req.First, req.Second, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report.Result)
}

// Cover returns the playlist's cover image URL, or null. It never fails.
func (h *APIHandler) Cover(w http.ResponseWriter, r *http.Request) {
	ref := models.PlaylistRef{Mode: models.Private, RawInput: r.PathValue("id")}

	var resp CoverResponse
	if url, ok := h.engine.Cover(r.Context(), bearerToken(r), ref); ok {
		resp.URL = &url
	}
	writeJSON(w, http.StatusOK, resp)
}

func bearerToken(r *http.Request) models.AccessToken {
	header := r.Header.Get("Authorization")
	if value, ok := strings.CutPrefix(header, "Bearer "); ok {
		return models.AccessToken{Value: strings.TrimSpace(value)}
	}
	return models.AccessToken{}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, shared.HTTPStatus(err), map[string]string{"error": err.Error()})
}
