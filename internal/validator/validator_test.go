package validator

import (
	"errors"
	"github.com/stretchr/testify/require"
	"testing"
)

type searchInput struct {
	Username string `validate:"required,max=39,githubuser"`
	Pattern  string `validate:"required,regexp"`
}

func TestValidationMessages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   searchInput
		message string
	}{
		{
			name:    "valid",
			input:   searchInput{Username: "octo-cat42", Pattern: "^hello.*"},
			message: "",
		},
		{
			name:    "empty username",
			input:   searchInput{Pattern: "hello"},
			message: "Username field can not be empty",
		},
		{
			name:    "empty pattern",
			input:   searchInput{Username: "alice"},
			message: "Pattern field can not be empty",
		},
		{
			name:    "both empty",
			input:   searchInput{},
			message: "Username field can not be empty ; Pattern field can not be empty",
		},
		{
			name:    "invalid pattern",
			input:   searchInput{Username: "alice", Pattern: "("},
			message: "Invalid pattern",
		},
		{
			name:    "username with spaces",
			input:   searchInput{Username: "not a user", Pattern: "a"},
			message: "Invalid username",
		},
		{
			name:    "username with double hyphen",
			input:   searchInput{Username: "a--b", Pattern: "a"},
			message: "Invalid username",
		},
		{
			name:    "username with leading hyphen",
			input:   searchInput{Username: "-alice", Pattern: "a"},
			message: "Invalid username",
		},
		{
			name:    "username too long",
			input:   searchInput{Username: "a123456789012345678901234567890123456789", Pattern: "a"},
			message: "Username is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tt.message, ValidationMessages(&err))
		})
	}
}

func TestCheck(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Check(searchInput{Username: "alice", Pattern: "a"}))

	err := v.Check(searchInput{Username: "alice"})
	require.Error(t, err)
	require.True(t, IsValidationFailure(err))
	require.Equal(t, "Pattern field can not be empty", err.Error())

	var failure *ValidationFailure
	require.True(t, errors.As(err, &failure))
	require.NotNil(t, errors.Unwrap(failure))
}

func TestValidationMessagesPlainError(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, "boom", ValidationMessages(&err))
	require.False(t, IsValidationFailure(err))
}

func TestVar(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Var("alice", "githubuser"))
	require.Error(t, v.Var("al ice", "githubuser"))
	require.NoError(t, v.Var("[a-z]+", "regexp"))
	require.Error(t, v.Var("[a-z", "regexp"))
}
