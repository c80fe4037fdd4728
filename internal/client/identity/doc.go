// Package identity provides a Go client for the Firebase Identity Toolkit REST API.
// It covers the three email/password calls used by the CLI (sign-up, sign-in
// and account lookup), sends each as a JSON POST authorised by the project's
// Web API key, and normalizes failures into configuration, network and
// remote errors. The client knows nothing about storage or presentation.
package identity
