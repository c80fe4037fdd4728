package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/fbauth/internal/config"
	"github.com/oshokin/fbauth/internal/version"
)

const testAPIKey = "AIzaTestKey"

// stubIdentityService is an httptest server standing in for the identity service.
type stubIdentityService struct {
	server   *httptest.Server
	requests atomic.Int32
	// lastPath and lastBody describe the most recent request.
	lastPath  atomic.Value
	lastBody  atomic.Value
	lastQuery atomic.Value
}

func newStubIdentityService(t *testing.T, status int, body string) *stubIdentityService {
	t.Helper()

	stub := &stubIdentityService{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.requests.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t,
			"fbauth/"+version.Short()+" ("+runtime.GOOS+"; "+runtime.GOARCH+")",
			r.Header.Get("User-Agent"))

		payload, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		stub.lastPath.Store(r.URL.Path)
		stub.lastQuery.Store(r.URL.Query().Get("key"))
		stub.lastBody.Store(string(payload))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(stub.server.Close)

	return stub
}

func newTestClient(t *testing.T, baseURL, apiKey string) Client {
	t.Helper()

	client, err := NewClient(&config.Config{
		APIKey:          apiKey,
		IdentityBaseURL: baseURL + "/v1",
	})
	require.NoError(t, err)

	return client
}

// TestNewClient tests the NewClient function.
func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&config.Config{APIKey: testAPIKey, ParsedRequestTimeout: 5 * time.Second})
	require.NoError(t, err)

	impl, ok := client.(*ClientImpl)
	require.True(t, ok)
	assert.Equal(t, config.DefaultIdentityBaseURL, impl.baseURL.String())
	assert.Equal(t, 5*time.Second, impl.httpClient.Timeout)

	_, err = NewClient(&config.Config{IdentityBaseURL: "http://[::1"})
	require.Error(t, err)
}

// TestClient_Call_ConfigurationError tests that a missing or placeholder key never reaches the network.
func TestClient_Call_ConfigurationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		apiKey string
	}{
		{name: "empty key", apiKey: ""},
		{name: "whitespace key", apiKey: "   "},
		{name: "placeholder key", apiKey: config.PlaceholderAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := newStubIdentityService(t, http.StatusOK, `{}`)
			client := newTestClient(t, stub.server.URL, tt.apiKey)

			raw, err := client.Call(context.Background(), OperationSignUp, &PasswordRequest{})
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, raw)

			_, err = client.Lookup(context.Background(), "T1")
			require.ErrorIs(t, err, ErrConfiguration)

			assert.Equal(t, int32(0), stub.requests.Load())
		})
	}
}

// TestClient_Call_Endpoints tests that every operation maps to its endpoint.
func TestClient_Call_Endpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		operation    Operation
		expectedPath string
	}{
		{OperationSignUp, "/v1/accounts:signUp"},
		{OperationSignIn, "/v1/accounts:signInWithPassword"},
		{OperationLookup, "/v1/accounts:lookup"},
	}

	for _, tt := range tests {
		t.Run(tt.operation.String(), func(t *testing.T) {
			t.Parallel()

			stub := newStubIdentityService(t, http.StatusOK, `{"ok":true}`)
			client := newTestClient(t, stub.server.URL, testAPIKey)

			raw, err := client.Call(context.Background(), tt.operation, map[string]string{"a": "b"})
			require.NoError(t, err)

			assert.JSONEq(t, `{"ok":true}`, string(raw))
			assert.Equal(t, tt.expectedPath, stub.lastPath.Load())
			assert.Equal(t, testAPIKey, stub.lastQuery.Load())
			assert.JSONEq(t, `{"a":"b"}`, stub.lastBody.Load().(string)) //nolint:forcetypeassert // Stored as string.
		})
	}
}

// TestClient_Call_UnknownOperation tests that an operation without endpoint is rejected locally.
func TestClient_Call_UnknownOperation(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK, `{}`)
	client := newTestClient(t, stub.server.URL, testAPIKey)

	_, err := client.Call(context.Background(), Operation(42), nil)
	require.ErrorIs(t, err, ErrUnknownOperation)
	assert.Equal(t, int32(0), stub.requests.Load())
}

// TestClient_Call_RemoteError tests normalization of non-success responses.
func TestClient_Call_RemoteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{
			name:            "service message",
			status:          http.StatusBadRequest,
			body:            `{"error":{"code":400,"message":"EMAIL_EXISTS","errors":[{"message":"EMAIL_EXISTS"}]}}`,
			expectedMessage: "EMAIL_EXISTS",
		},
		{
			name:            "empty service message",
			status:          http.StatusBadRequest,
			body:            `{"error":{"code":400,"message":""}}`,
			expectedMessage: "request failed",
		},
		{
			name:            "body is not JSON",
			status:          http.StatusBadGateway,
			body:            `<html>bad gateway</html>`,
			expectedMessage: "request failed",
		},
		{
			name:            "JSON without error object",
			status:          http.StatusInternalServerError,
			body:            `{"status":"down"}`,
			expectedMessage: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := newStubIdentityService(t, tt.status, tt.body)
			client := newTestClient(t, stub.server.URL, testAPIKey)

			_, err := client.SignIn(context.Background(), "user@test.com", "secret1")
			require.ErrorIs(t, err, ErrRemote)

			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.status, remoteErr.StatusCode)
			assert.Equal(t, tt.expectedMessage, remoteErr.Message)
			assert.Equal(t, tt.expectedMessage, err.Error())
		})
	}
}

// TestClient_Call_NetworkError tests that transport failures are reported as network errors.
func TestClient_Call_NetworkError(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK, `{}`)
	baseURL := stub.server.URL
	stub.server.Close()

	client := newTestClient(t, baseURL, testAPIKey)

	_, err := client.SignUp(context.Background(), "user@test.com", "secret1")
	require.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrRemote)
}

// TestClient_Call_InvalidSuccessBody tests that a 200 response with a non-JSON body is rejected.
func TestClient_Call_InvalidSuccessBody(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK, `not json`)
	client := newTestClient(t, stub.server.URL, testAPIKey)

	_, err := client.Call(context.Background(), OperationLookup, &LookupRequest{IDToken: "T1"})
	require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
}

// TestClient_SignUp tests the SignUp method.
func TestClient_SignUp(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK,
		`{"kind":"identitytoolkit#SignupNewUserResponse","idToken":"T1","email":"user@test.com",`+
			`"refreshToken":"R1","expiresIn":"3600","localId":"uid-1"}`)
	client := newTestClient(t, stub.server.URL, testAPIKey)

	result, err := client.SignUp(context.Background(), "user@test.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "T1", result.IDToken)
	assert.Equal(t, "user@test.com", result.Email)
	assert.Equal(t, "3600", result.ExpiresIn)
	assert.Equal(t, "uid-1", result.LocalID)
	assert.Contains(t, string(result.Raw), "identitytoolkit#SignupNewUserResponse")

	var sent PasswordRequest
	require.NoError(t, json.Unmarshal([]byte(stub.lastBody.Load().(string)), &sent)) //nolint:forcetypeassert // Stored as string.
	assert.Equal(t, PasswordRequest{Email: "user@test.com", Password: "secret1", ReturnSecureToken: true}, sent)
	assert.Equal(t, "/v1/accounts:signUp", stub.lastPath.Load())
}

// TestClient_SignIn tests the SignIn method.
func TestClient_SignIn(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK,
		`{"idToken":"T2","email":"user@test.com","registered":true}`)
	client := newTestClient(t, stub.server.URL, testAPIKey)

	result, err := client.SignIn(context.Background(), "user@test.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "T2", result.IDToken)
	assert.True(t, result.Registered)
	assert.Equal(t, "/v1/accounts:signInWithPassword", stub.lastPath.Load())
}

// TestClient_Lookup tests the Lookup method.
func TestClient_Lookup(t *testing.T) {
	t.Parallel()

	stub := newStubIdentityService(t, http.StatusOK,
		`{"kind":"identitytoolkit#GetAccountInfoResponse","users":[`+
			`{"localId":"uid-1","email":"user@test.com","emailVerified":false,"createdAt":"1700000000000"}]}`)
	client := newTestClient(t, stub.server.URL, testAPIKey)

	result, err := client.Lookup(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, result.Users, 1)

	user, raw, err := result.FirstUser()
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.LocalID)
	assert.Equal(t, "user@test.com", user.Email)
	assert.Equal(t, "1700000000000", user.CreatedAt)
	assert.JSONEq(t,
		`{"localId":"uid-1","email":"user@test.com","emailVerified":false,"createdAt":"1700000000000"}`,
		string(raw))
	assert.JSONEq(t, `{"idToken":"T1"}`, stub.lastBody.Load().(string)) //nolint:forcetypeassert // Stored as string.
}

// TestLookupResponse_FirstUser_Empty tests that an empty users array is reported.
func TestLookupResponse_FirstUser_Empty(t *testing.T) {
	t.Parallel()

	_, _, err := (&LookupResponse{}).FirstUser()
	require.ErrorIs(t, err, ErrUnexpectedResponseFormat)
}

// TestOperation_String tests the Operation String method.
func TestOperation_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "signUp", OperationSignUp.String())
	assert.Equal(t, "signInWithPassword", OperationSignIn.String())
	assert.Equal(t, "lookup", OperationLookup.String())
	assert.Equal(t, "Operation(42)", Operation(42).String())
}
