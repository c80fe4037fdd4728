// Package auth implements the authentication session workflow: credential
// validation, calls to the identity service and bookkeeping of the session
// token. Every operation reports its outcome as a Result value; the package
// has no terminal or UI dependency.
package auth
