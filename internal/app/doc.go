// Package app wires configuration, the identity client, the session store and
// the authentication workflow together for each CLI command, and renders the
// outcome to the terminal: a spinner while a request is in flight, a themed
// success or error line, and the formatted JSON result.
package app
