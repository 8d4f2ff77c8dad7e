// Package server provides HTTP routing, middleware, and the web surface for
// playlist creation.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. The [BasicRouter] implementation uses
// [http.ServeMux] internally with method filtering. [RequestLogger] and
// [RateLimit] are the two middleware the service installs by default.
//
// # Web authorization flow
//
// [LoginHandler] redirects the browser to the provider's consent screen with
// a state token pinned in a short-lived cookie. [CallbackHandler] validates
// that state, exchanges the authorization code, and bounces back to the
// index page with the bearer credential in the query string, where the page
// script dispatches the creation request.
//
// # CLI authorization flow
//
// [OAuthHandler] implements the one-shot callback used by the auth command:
// a temporary local server handles a single callback, exchanges the code,
// and delivers the token over a channel. It only processes one callback to
// prevent replay.
//
// # Playlist creation
//
// [CreateHandler] is the inbound boundary of the orchestration: it decodes
// the request, runs the engine, and writes the engine's single outcome with
// its mapped status code. [IndexHandler] serves the form and holds the
// server-visible half of the dispatch lock.
package server
