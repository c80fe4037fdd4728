package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import (
	"fmt"
	"runtime"
	"strings"
)

// UserAgentProvider supplies the User-Agent sent with outgoing requests.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// ClientUserAgentProvider identifies a CLI build in the "product/version (os; arch)" form.
type ClientUserAgentProvider struct {
	userAgent string
}

// NewClientUserAgentProvider creates a provider for the given product and version.
// An empty version is reported as "dev".
func NewClientUserAgentProvider(product, version string) UserAgentProvider {
	version = strings.TrimSpace(version)
	if version == "" {
		version = "dev"
	}

	return &ClientUserAgentProvider{
		userAgent: fmt.Sprintf("%s/%s (%s; %s)", product, version, runtime.GOOS, runtime.GOARCH),
	}
}

// GetUserAgent returns the formatted User-Agent.
func (p *ClientUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
