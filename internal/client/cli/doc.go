// Package cli provides the interactive divert terminal client.
//
// It wires configuration, durable session storage, the backend API client
// and the session manager, restores the previous session and then runs a
// REPL. The prompt reflects the session state: "(initializing)" until the
// restore finishes, then the logged-in username.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - Browse the store (crews and workflows)
//   - Manage teams: add, run, rename, remove
//   - List and configure third-party integrations
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
