// Package session persists the client-local authentication state: the
// current idToken and the user's theme preference. FileStore keeps both in
// a single YAML file that survives restarts; MemoryStore is an in-process
// stand-in used by tests.
package session
