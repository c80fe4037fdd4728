package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidate tests the Validate function.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		email         string
		password      string
		expected      Credentials
		expectedError error
	}{
		{
			name:     "valid credentials",
			email:    "user@test.com",
			password: "secret1",
			expected: Credentials{Email: "user@test.com", Password: "secret1"},
		},
		{
			name:     "inputs are trimmed",
			email:    "  user@test.com\t",
			password: " secret1 ",
			expected: Credentials{Email: "user@test.com", Password: "secret1"},
		},
		{
			name:     "exactly six characters",
			email:    "a@b.c",
			password: "123456",
			expected: Credentials{Email: "a@b.c", Password: "123456"},
		},
		{
			name:     "three emoji fill six code units",
			email:    "a@b.c",
			password: "😀😀😀",
			expected: Credentials{Email: "a@b.c", Password: "😀😀😀"},
		},
		{
			name:     "loose email check accepts dot before at",
			email:    "first.last@localhost",
			password: "secret1",
			expected: Credentials{Email: "first.last@localhost", Password: "secret1"},
		},
		{
			name:          "empty email",
			email:         "",
			password:      "secret1",
			expectedError: ErrEmptyField,
		},
		{
			name:          "whitespace password",
			email:         "user@test.com",
			password:      "   ",
			expectedError: ErrEmptyField,
		},
		{
			name:          "empty wins over malformed",
			email:         "userexample",
			password:      "",
			expectedError: ErrEmptyField,
		},
		{
			name:          "email without at",
			email:         "userexample.com",
			password:      "secret1",
			expectedError: ErrMalformedEmail,
		},
		{
			name:          "email without dot",
			email:         "user@localhost",
			password:      "secret1",
			expectedError: ErrMalformedEmail,
		},
		{
			name:          "malformed email regardless of weak password",
			email:         "userexample.com",
			password:      "123",
			expectedError: ErrMalformedEmail,
		},
		{
			name:          "weak password",
			email:         "a@b.co",
			password:      "12345",
			expectedError: ErrWeakPassword,
		},
		{
			name:          "five accented letters are five code units",
			email:         "a@b.co",
			password:      "ééééé",
			expectedError: ErrWeakPassword,
		},
		{
			name:          "two emoji are four code units",
			email:         "a@b.co",
			password:      "😀😀",
			expectedError: ErrWeakPassword,
		},
		{
			name:          "padding does not count towards length",
			email:         "a@b.co",
			password:      "  12345  ",
			expectedError: ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			credentials, err := Validate(tt.email, tt.password)

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				require.ErrorIs(t, err, ErrValidation)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Empty(t, credentials)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, credentials)
		})
	}
}

// TestValidate_Messages tests the user-facing validation messages.
func TestValidate_Messages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fields cannot be empty", ErrEmptyField.Error())
	assert.Equal(t, "invalid email format", ErrMalformedEmail.Error())
	assert.Equal(t, "password must be at least 6 characters", ErrWeakPassword.Error())
}
