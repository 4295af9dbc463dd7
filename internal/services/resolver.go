package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/shared"
)

// playlistIDPattern matches the identifier following "playlist/" in a share link.
var playlistIDPattern = regexp.MustCompile(`playlist/([a-zA-Z0-9]+)`)

// Resolve turns a playlist reference into a canonical playlist ID.
//
// Public references extract the first "playlist/<id>" match from the input.
// Private references already are the ID and are returned unchanged once known to be non-empty.
func Resolve(ref models.PlaylistRef) (string, error) {
	switch ref.Mode {
	case models.Public:
		match := playlistIDPattern.FindStringSubmatch(ref.RawInput)
		if len(match) < 2 {
			return "", &shared.UnresolvedReferenceError{Mode: string(ref.Mode), Input: ref.RawInput}
		}
		return match[1], nil
	case models.Private:
		if strings.TrimSpace(ref.RawInput) == "" {
			return "", &shared.UnresolvedReferenceError{Mode: string(ref.Mode), Input: ref.RawInput}
		}
		return ref.RawInput, nil
	default:
		return "", &shared.UnresolvedReferenceError{Mode: string(ref.Mode), Input: ref.RawInput}
	}
}

// ParseMode converts user input into a [models.RefMode]; empty input selects public mode.
func ParseMode(s string) (models.RefMode, error) {
	switch models.RefMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", models.Public:
		return models.Public, nil
	case models.Private:
		return models.Private, nil
	default:
		return "", fmt.Errorf("%w: mode must be 'public' or 'private', got %q", shared.ErrInvalidArgument, s)
	}
}
