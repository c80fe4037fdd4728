package identity

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/logger"
	http_transport "github.com/oshokin/fbauth/internal/transport/http"
)

// Client defines the interface for interacting with the identity service.
type Client interface {
	// Call posts payload to the endpoint of the operation and returns the success body verbatim.
	Call(ctx context.Context, operation Operation, payload any) (json.RawMessage, error)
	// SignUp creates an email/password account and returns the issued token.
	SignUp(ctx context.Context, email, password string) (*TokenResponse, error)
	// SignIn signs in with email and password and returns the issued token.
	SignIn(ctx context.Context, email, password string) (*TokenResponse, error)
	// Lookup returns the accounts behind an idToken.
	Lookup(ctx context.Context, idToken string) (*LookupResponse, error)
}

// ClientImpl implements the Client interface over HTTP.
type ClientImpl struct {
	// apiKey is the project's Web API key.
	apiKey string
	// baseURL is the base URL for API requests.
	baseURL *url.URL
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// NewClient creates and returns a new instance of ClientImpl.
// A missing API key is not an error here: Call reports it before any request is sent.
func NewClient(cfg *config.Config) (Client, error) {
	rawBaseURL := cfg.IdentityBaseURL
	if rawBaseURL == "" {
		rawBaseURL = config.DefaultIdentityBaseURL
	}

	// Parse the base URL of the identity service.
	baseURL, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid identity base URL: %w", err)
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = http_transport.DefaultTimeout
	}

	// Initialize the HTTP client with custom transport and timeout.
	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			http_transport.DefaultUserAgentProvider()),
		Timeout: timeout,
	}

	return &ClientImpl{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Call posts payload to the endpoint of the operation and returns the success body verbatim.
func (c *ClientImpl) Call(ctx context.Context, operation Operation, payload any) (json.RawMessage, error) {
	if c.apiKey == "" || c.apiKey == config.PlaceholderAPIKey {
		return nil, ErrConfiguration
	}

	uri, ok := operation.uri()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}

	logger.Debugf(ctx, "Calling identity service: %s", operation)

	return c.postJSON(ctx, uri, payload)
}

// SignUp creates an email/password account and returns the issued token.
func (c *ClientImpl) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.passwordCall(ctx, OperationSignUp, email, password)
}

// SignIn signs in with email and password and returns the issued token.
func (c *ClientImpl) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.passwordCall(ctx, OperationSignIn, email, password)
}

// Lookup returns the accounts behind an idToken.
func (c *ClientImpl) Lookup(ctx context.Context, idToken string) (*LookupResponse, error) {
	raw, err := c.Call(ctx, OperationLookup, &LookupRequest{IDToken: idToken})
	if err != nil {
		return nil, err
	}

	var result LookupResponse
	if err = json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponseFormat, err)
	}

	result.Raw = raw

	return &result, nil
}

func (c *ClientImpl) passwordCall(
	ctx context.Context,
	operation Operation,
	email string,
	password string,
) (*TokenResponse, error) {
	raw, err := c.Call(ctx, operation, &PasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}

	var result TokenResponse
	if err = json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponseFormat, err)
	}

	result.Raw = raw

	return &result, nil
}
