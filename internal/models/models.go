// package models defines the value objects passed between the playlist comparison layers
package models

import (
	"strings"
	"time"
)

// AccessToken is a bearer credential scoped to one comparison session.
//
// The core never inspects or refreshes it; Expiry is whatever the accounts service declared.
type AccessToken struct {
	Value  string    `json:"access_token"`
	Expiry time.Time `json:"expiry,omitzero"`
}

// Bearer returns the Authorization header value for the token.
func (t AccessToken) Bearer() string {
	return "Bearer " + t.Value
}

// Empty reports whether the token carries no credential.
func (t AccessToken) Empty() bool {
	return strings.TrimSpace(t.Value) == ""
}

// RefMode selects how a [PlaylistRef] input is interpreted.
type RefMode string

const (
	Public  RefMode = "public"  // RawInput is a share link containing "playlist/<id>"
	Private RefMode = "private" // RawInput is an ID picked from the user's library
)

// PlaylistRef is a user-supplied pointer to a playlist.
//
// ResolvedID is populated only after successful resolution.
type PlaylistRef struct {
	Mode       RefMode `json:"mode"`
	RawInput   string  `json:"input"`
	ResolvedID string  `json:"resolved_id,omitempty"`
}

// Resolved reports whether the reference has been resolved to an ID.
func (r PlaylistRef) Resolved() bool {
	return r.ResolvedID != ""
}

// Track is the comparison-ready shape of a playlist entry.
//
// Artist is the comma-joined list of every contributing artist.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// PlaylistSummary is a library entry used to populate private-mode selection.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

// ReconciliationResult holds the shared tracks and the tracks unique to each playlist.
//
// Every sequence keeps the order and multiplicity of the playlist it was drawn from.
type ReconciliationResult struct {
	Common []Track `json:"common"`
	Only1  []Track `json:"only1"`
	Only2  []Track `json:"only2"`
}

// ComparisonReport pairs a [ReconciliationResult] with the references that produced it.
type ComparisonReport struct {
	First  PlaylistRef          `json:"first"`
	Second PlaylistRef          `json:"second"`
	Result ReconciliationResult `json:"result"`
}

// Sets yields the three result sequences under their labels in display order.
func (r ReconciliationResult) Sets() []NamedSet {
	return []NamedSet{
		{Name: SetCommon, Tracks: r.Common},
		{Name: SetOnly1, Tracks: r.Only1},
		{Name: SetOnly2, Tracks: r.Only2},
	}
}

const (
	SetCommon = "common"
	SetOnly1  = "only1"
	SetOnly2  = "only2"
)

// NamedSet is one labelled slice of a [ReconciliationResult].
type NamedSet struct {
	Name   string
	Tracks []Track
}
