// Package models defines the value objects of a playlist comparison.
//
// Every type here is created fresh per comparison request and discarded once the result is delivered:
//   - [AccessToken] : Bearer credential obtained from the code exchange
//   - [PlaylistRef] : Public link or private library selection, plus its resolved ID
//   - [Track] : Minimal track shape used for identity comparison
//   - [PlaylistSummary] : Library listing entry for private-mode selection
//   - [ReconciliationResult] : Common tracks and the tracks unique to each side
//   - [ComparisonReport] : Both resolved references with their reconciliation
//
// Nothing in this package is persisted.
package models
