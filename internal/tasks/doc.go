// Package tasks compares two Spotify playlists and reports what they share.
//
// # Core Operations
//
// [CompareEngine] is the entry point used by the CLI, TUI and HTTP layers:
//
//  1. [CompareEngine.Compare] : Reconcile two playlist references
//     - Resolves each [models.PlaylistRef] (share link or library ID)
//     - Fetches both track listings concurrently
//     - Partitions them with [Reconcile] once both fetches settle
//
//  2. [CompareEngine.Playlists] : List the user's library for private selection
//     - Failures degrade to an empty list
//
//  3. [CompareEngine.Cover] : Best-effort cover image lookup
//     - Independent of any comparison; absence is not an error
//
// # Comparison Lifecycle
//
// Every run is a [Comparison] that starts Idle, moves to Fetching while both requests are in flight,
// and ends Reconciled or Failed. Terminal states are final: running a comparison twice returns
// [shared.ErrComparisonUsed]. A failure in either fetch fails the whole comparison and no partial
// result is exposed.
//
// # Reconciliation
//
// [Reconcile] compares tracks by ID and preserves duplicates. Concatenating Common and Only1
// in order of appearance in the first playlist reproduces it exactly.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
