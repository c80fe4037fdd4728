package identity

import (
	"encoding/json"
	"fmt"
)

// Operation is one of the fixed requests the client can issue.
type Operation int

const (
	// OperationSignUp creates an email/password account.
	OperationSignUp Operation = iota + 1
	// OperationSignIn signs in with email and password.
	OperationSignIn
	// OperationLookup fetches the account behind an idToken.
	OperationLookup
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OperationSignUp:
		return "signUp"
	case OperationSignIn:
		return "signInWithPassword"
	case OperationLookup:
		return "lookup"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// uri returns the endpoint path of the operation.
func (o Operation) uri() (string, bool) {
	switch o {
	case OperationSignUp:
		return identityAPISignUpURI, true
	case OperationSignIn:
		return identityAPISignInURI, true
	case OperationLookup:
		return identityAPILookupURI, true
	default:
		return "", false
	}
}

// PasswordRequest is the body of sign-up and sign-in requests.
type PasswordRequest struct {
	// Email is the account email.
	Email string `json:"email"`
	// Password is the account password.
	Password string `json:"password"`
	// ReturnSecureToken asks the service to include an idToken in the response.
	ReturnSecureToken bool `json:"returnSecureToken"`
}

// LookupRequest is the body of account lookup requests.
type LookupRequest struct {
	// IDToken is the token of the account to look up.
	IDToken string `json:"idToken"`
}

// TokenResponse is the success body of sign-up and sign-in requests.
type TokenResponse struct {
	// IDToken is the issued bearer credential.
	IDToken string `json:"idToken"`
	// Email is the account email.
	Email string `json:"email"`
	// RefreshToken is issued alongside the idToken; it is not used by this client.
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the idToken lifetime in seconds, as a decimal string.
	ExpiresIn string `json:"expiresIn"`
	// LocalID is the account's user ID.
	LocalID string `json:"localId"`
	// Registered is set by sign-in for existing accounts.
	Registered bool `json:"registered"`
	// Raw is the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// LookupResponse is the success body of account lookup requests.
type LookupResponse struct {
	// Users holds the matching accounts, kept verbatim.
	Users []json.RawMessage `json:"users"`
	// Raw is the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// User is the subset of account fields the CLI renders.
type User struct {
	// LocalID is the account's user ID.
	LocalID string `json:"localId"`
	// Email is the account email.
	Email string `json:"email"`
	// EmailVerified tells whether the email was verified.
	EmailVerified bool `json:"emailVerified"`
	// DisplayName is the optional display name.
	DisplayName string `json:"displayName"`
	// CreatedAt is the creation time in milliseconds since the epoch, as a decimal string.
	CreatedAt string `json:"createdAt"`
	// LastLoginAt is the last sign-in time in milliseconds since the epoch, as a decimal string.
	LastLoginAt string `json:"lastLoginAt"`
}

// FirstUser decodes users[0], returning it together with its verbatim JSON.
func (r *LookupResponse) FirstUser() (*User, json.RawMessage, error) {
	if len(r.Users) == 0 {
		return nil, nil, fmt.Errorf("%w: no users in lookup response", ErrUnexpectedResponseFormat)
	}

	var user User
	if err := json.Unmarshal(r.Users[0], &user); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnexpectedResponseFormat, err)
	}

	return &user, r.Users[0], nil
}
