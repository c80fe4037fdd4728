package auth

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oshokin/fbauth/internal/client/identity"
	"github.com/oshokin/fbauth/internal/logger"
	"github.com/oshokin/fbauth/internal/session"
)

// Operation names attached to the log context.
const (
	operationRegister     = "register"
	operationLogin        = "login"
	operationFetchProfile = "fetch_profile"
	operationLogout       = "logout"
)

// ErrNotAuthenticated indicates that no session token is stored.
var ErrNotAuthenticated = errors.New("not authenticated")

// Result is the outcome of a workflow operation: success data or a failure, never both.
type Result struct {
	// DisplayEmail is the email to show for the account.
	DisplayEmail string
	// Raw is the JSON document to render on success.
	Raw json.RawMessage
	// LoggedOut is set by a successful logout.
	LoggedOut bool
	// Err is the failure; nil on success.
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// failure wraps err into a failed Result.
func failure(err error) Result {
	return Result{Err: err}
}

// Service defines the authentication session workflow.
type Service interface {
	// Register validates the credentials, creates an account and stores its token.
	Register(ctx context.Context, email, password string) Result
	// Login validates the credentials, signs in and stores the token.
	Login(ctx context.Context, email, password string) Result
	// FetchProfile looks up the account behind the stored token.
	FetchProfile(ctx context.Context) Result
	// Logout discards the stored token.
	Logout(ctx context.Context) Result
}

// ServiceImpl implements Service on top of an identity client and a session store.
type ServiceImpl struct {
	// identityClient talks to the identity service.
	identityClient identity.Client
	// store keeps the session token between invocations.
	store session.Store
}

// NewService creates a workflow bound to the given client and store.
func NewService(identityClient identity.Client, store session.Store) Service {
	return &ServiceImpl{
		identityClient: identityClient,
		store:          store,
	}
}

// emailView is the document rendered after register and login.
type emailView struct {
	Email string `json:"email"`
}

// Register validates the credentials, creates an account and stores its token.
func (s *ServiceImpl) Register(ctx context.Context, email, password string) Result {
	ctx = withOperation(ctx, operationRegister)

	return s.authenticate(ctx, email, password, s.identityClient.SignUp)
}

// Login validates the credentials, signs in and stores the token.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) Result {
	ctx = withOperation(ctx, operationLogin)

	return s.authenticate(ctx, email, password, s.identityClient.SignIn)
}

// FetchProfile looks up the account behind the stored token.
// Without a token it fails with ErrNotAuthenticated and makes no request.
func (s *ServiceImpl) FetchProfile(ctx context.Context) Result {
	ctx = withOperation(ctx, operationFetchProfile)

	token, ok, err := s.store.GetToken()
	if err != nil {
		logger.Errorf(ctx, "Failed to read session token: %v", err)

		return failure(fmt.Errorf("failed to read session: %w", err))
	}

	if !ok {
		logger.Debug(ctx, "No session token stored")

		return failure(ErrNotAuthenticated)
	}

	response, err := s.identityClient.Lookup(ctx, token)
	if err != nil {
		logger.Warnf(ctx, "Profile lookup failed: %v", err)

		return failure(err)
	}

	user, raw, err := response.FirstUser()
	if err != nil {
		logger.Warnf(ctx, "Profile lookup returned no account: %v", err)

		return failure(err)
	}

	logger.InfoKV(ctx, "Profile fetched", "local_id", user.LocalID)

	return Result{
		DisplayEmail: user.Email,
		Raw:          raw,
	}
}

// Logout discards the stored token. It always succeeds; a store failure is only logged.
func (s *ServiceImpl) Logout(ctx context.Context) Result {
	ctx = withOperation(ctx, operationLogout)

	if err := s.store.ClearToken(); err != nil {
		logger.Errorf(ctx, "Failed to clear session token: %v", err)
	} else {
		logger.Debug(ctx, "Session token cleared")
	}

	return Result{LoggedOut: true}
}

// authenticate runs the shared register/login pipeline: validate, call, persist.
func (s *ServiceImpl) authenticate(
	ctx context.Context,
	email string,
	password string,
	call func(ctx context.Context, email, password string) (*identity.TokenResponse, error),
) Result {
	credentials, err := Validate(email, password)
	if err != nil {
		logger.Debugf(ctx, "Credentials rejected: %v", err)

		return failure(err)
	}

	response, err := call(ctx, credentials.Email, credentials.Password)
	if err != nil {
		logger.Warnf(ctx, "Identity service call failed: %v", err)

		return failure(err)
	}

	if response.IDToken == "" {
		logger.Warn(ctx, "Identity service response has no idToken")

		return failure(fmt.Errorf("%w: missing idToken", identity.ErrUnexpectedResponseFormat))
	}

	if err = s.store.SaveToken(response.IDToken); err != nil {
		logger.Errorf(ctx, "Failed to save session token: %v", err)

		return failure(fmt.Errorf("failed to save session: %w", err))
	}

	displayEmail := response.Email
	if displayEmail == "" {
		displayEmail = credentials.Email
	}

	raw, err := json.Marshal(emailView{Email: displayEmail})
	if err != nil {
		return failure(fmt.Errorf("failed to encode result: %w", err))
	}

	logger.InfoKV(ctx, "Authenticated", "email", displayEmail, "local_id", response.LocalID)

	return Result{
		DisplayEmail: displayEmail,
		Raw:          raw,
	}
}

// withOperation tags the context logger with the operation name and a fresh correlation ID.
func withOperation(ctx context.Context, operation string) context.Context {
	return logger.WithKV(ctx, "operation", operation, "operation_id", uuid.NewString())
}
