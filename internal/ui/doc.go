// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through a comparison of two library playlists:
//  1. [PickFirstView] : Choose the first playlist from the user's library
//  2. [PickSecondView] : Choose the second playlist
//  3. [ConfirmView] : Confirm the comparison
//  4. [CompareView] : Monitor progress while both playlists are fetched
//  5. [ResultView] : Browse the common, only-in-first and only-in-second tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the CompareEngine, providing non-blocking status reporting while fetching.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
