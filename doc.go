// Package brandkit is the Go client SDK for the Nexar brand-admin API: the
// backend that powers product inventory, subscription/billing, and profile
// management for AR product-visualization tenants.
//
// The package has two cooperating cores. The [SessionStore] owns the current
// identity ([Admin]), the tenant record ([Brand]), and the short-lived access
// token, and persists all three through a pluggable [session.Backend] so a
// restarted process resumes its session without re-login. The request gateway
// (internal to [Client]) attaches the access token to every outgoing request,
// transparently refreshes it on the first 401, coalesces concurrent refreshes
// into a single call, and tears the session down when refresh itself fails.
//
// # Architecture boundaries
//
// brandkit is the public surface. It exposes [Client], [Builder], [Config],
// the API value types, and the error taxonomy. Event dispatch lives under
// internal/ and is never exported directly; persistence backends live in the
// session subpackage; token inspection lives in the token subpackage.
//
// # Concurrency contract
//
// Client methods are safe to call from multiple goroutines after [Builder.Build].
// The session store is the single writer of identity, account, and token state.
// N concurrent requests that all receive 401 produce exactly one refresh call;
// every waiter retries once with the shared new token.
//
// # What this package must NOT do
//
//   - Recompute server-owned numbers (scan usage, product counts). Client state
//     is a cache of the last server response, not a source of truth.
//   - Touch the refresh credential. It is an HTTP cookie managed entirely by
//     the http.Client's cookie jar.
//   - Retry a request more than once. A second 401 after refresh propagates
//     to the caller unmodified.
package brandkit
