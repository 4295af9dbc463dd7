// Package services implements the pieces of the comparison that talk to Spotify, plus the pure helpers that shape their output.
//
// # Authentication
//
// [Exchanger] implements [Authenticator] on top of [oauth2.Config].
// [BuildLoginURL] and [Exchanger.LoginURL] produce the authorize redirect (response_type=code, client_id, scope, redirect_uri).
// [Exchanger.Exchange] posts a form-encoded authorization_code grant with the client credentials in the body ([oauth2.AuthStyleInParams]).
//
// # Library Access
//
// [SpotifyService] implements [Library]. The access token is an argument of every call and is never stored,
// so a single service value can be shared across sessions and concurrent fetches.
//
// Only the first page of any listing is read; continuation cursors are ignored.
//
// # Reference Resolution
//
// [Resolve] turns a [models.PlaylistRef] into a playlist ID: public links through the "playlist/<id>" pattern,
// private selections verbatim.
//
// # Normalization
//
// [Normalize] reduces a [SpotifyTrack] to a [models.Track] with the artist names joined by ", ".
//
// # Error Handling
//
// Services return the taxonomy from the shared package:
//   - [shared.ErrMissingCode] : callback without an authorization code
//   - [shared.UpstreamAuthError] : non-success status from the token endpoint or the Web API, with body
//   - [shared.NetworkError] : transport failure
//   - [shared.UnresolvedReferenceError] : playlist reference without an ID
package services
