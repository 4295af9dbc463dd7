// Package server provides HTTP routing, middleware, and OAuth handling for the CLI and web interfaces.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so wildcards like {id} are available
// through [http.Request.PathValue].
//
// # OAuth Callback
//
// Two handlers serve /callback:
//
//   - [OAuthHandler] is used by `pldiff auth login`. It validates the state parameter, exchanges the code and
//     sends exactly one result through a channel. Only the first callback is processed.
//   - [CallbackHandler] is used by `pldiff serve`. It exchanges the code and redirects to /?access_token=.
//     Errors are written as JSON with a status from [shared.HTTPStatus].
//
// # JSON API
//
// [APIHandler] exposes the library listing, the comparison and the cover lookup to the web page.
// The access token travels in the Authorization header of each request.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
