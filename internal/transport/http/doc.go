// Package http provides custom HTTP transport utilities,
// including redacted request/response logging and User-Agent header injection.
// The round trippers wrap each other and are composed by the identity client.
package http
