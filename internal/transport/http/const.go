package http

import (
	"time"

	"github.com/oshokin/fbauth/internal/utils"
	"github.com/oshokin/fbauth/internal/version"
)

const (
	// DefaultTimeout is the default timeout duration for HTTP requests.
	DefaultTimeout = 60 * time.Second

	// ClientName is the product name reported in the User-Agent.
	ClientName = "fbauth"
)

// DefaultUserAgentProvider identifies this build, e.g. "fbauth/0.1.0 (linux; amd64)".
func DefaultUserAgentProvider() utils.UserAgentProvider {
	return utils.NewClientUserAgentProvider(ClientName, version.Short())
}
