// Package api is the HTTP client for the divert-ai-crew backend.
//
// The auth endpoints (Login, Register) are what the session layer depends
// on; the store, team and integration calls back the terminal views.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the status code and the
// backend's human-readable "detail" message. Common conditions can be matched
// with errors.Is: ErrUnauthorized (401/403), ErrNotFound (404) and
// ErrUnavailable (transport failures, 502/503/504).
//
// Authenticated calls take the bearer token from a TokenSource on every
// request, so a logout is visible to the very next call.
package api
