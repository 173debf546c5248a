// Package session owns the authentication state of the terminal client.
//
// A single Manager is constructed at start-up, restored from durable storage
// once via Initialize, and handed to every view through explicit wiring or
// NewContext. Views read the state with State, wait for the restore with
// Ready or WaitReady, and react to changes with Subscribe.
//
// Login and Register report their outcome as a Result: OK keeps the simple
// boolean contract, Message carries the backend's explanation for the user.
//
// The bearer token and the serialized user record are persisted together
// under storage.KeyAccessToken and storage.KeyUserData. A stored session with
// either half missing or unreadable is discarded on restore.
package session
