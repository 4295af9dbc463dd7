package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pldiff/internal/models"
	"github.com/desertthunder/pldiff/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgProgressUpdate
	MsgCompareComplete
)

type compareOutcome struct {
	report *models.ComparisonReport
	err    error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.PlaylistSummary) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlists}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// compareCompleteMsg is the constructor for [MsgCompareComplete]
func compareCompleteMsg(report *models.ComparisonReport, err error) Msg {
	return Msg{kind: MsgCompareComplete, data: compareOutcome{report: report, err: err}}
}
