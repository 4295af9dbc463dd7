package services

import (
	"strings"

	"github.com/desertthunder/pldiff/internal/models"
)

// Normalize maps a raw track into the minimal shape used for comparison.
//
// Artist names are joined with ", " in the order the service lists them.
func Normalize(raw SpotifyTrack) models.Track {
	names := make([]string, 0, len(raw.Artists))
	for _, artist := range raw.Artists {
		names = append(names, artist.Name)
	}

	var id string
	if raw.ID != nil {
		id = *raw.ID
	}

	return models.Track{
		ID:     id,
		Name:   raw.Name,
		Artist: strings.Join(names, ", "),
	}
}
