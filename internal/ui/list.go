package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/pldiff/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.ID }

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name + " " + i.track.Artist }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	if i.track.Artist == "" {
		return "Unknown Artist"
	}
	return i.track.Artist
}
