package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Username:  "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "Str0ng!Pass",
	}
}

func TestValidator_RegisterRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(r *RegisterRequest)
		wantField string
		wantMsg   string
	}{
		{name: "valid", mutate: func(r *RegisterRequest) {}},
		{name: "valid with user type", mutate: func(r *RegisterRequest) { r.UserType = "admin" }},
		{
			name:      "invalid email",
			mutate:    func(r *RegisterRequest) { r.Username = "not-an-email" },
			wantField: "username",
			wantMsg:   "Please enter a valid email address",
		},
		{
			name:      "missing first name",
			mutate:    func(r *RegisterRequest) { r.FirstName = "" },
			wantField: "first_name",
			wantMsg:   "First name is required",
		},
		{
			name:      "last name too long",
			mutate:    func(r *RegisterRequest) { r.LastName = strings.Repeat("a", 51) },
			wantField: "last_name",
			wantMsg:   "Last name must be 50 characters or less",
		},
		{
			name:      "short password",
			mutate:    func(r *RegisterRequest) { r.Password = "S0!a" },
			wantField: "password",
			wantMsg:   "Password must be at least 8 characters long",
		},
		{
			name:      "no uppercase",
			mutate:    func(r *RegisterRequest) { r.Password = "str0ng!pass" },
			wantField: "password",
			wantMsg:   "Password must contain at least one uppercase letter",
		},
		{
			name:      "no lowercase",
			mutate:    func(r *RegisterRequest) { r.Password = "STR0NG!PASS" },
			wantField: "password",
			wantMsg:   "Password must contain at least one lowercase letter",
		},
		{
			name:      "no digit",
			mutate:    func(r *RegisterRequest) { r.Password = "Strong!Pass" },
			wantField: "password",
			wantMsg:   "Password must contain at least one digit",
		},
		{
			name:      "no special character",
			mutate:    func(r *RegisterRequest) { r.Password = "Str0ngPass" },
			wantField: "password",
			wantMsg:   "Password must contain at least one special character",
		},
		{name: "72 byte password", mutate: func(r *RegisterRequest) { r.Password = "Str0ng!" + strings.Repeat("a", 65) }},
		{
			name:      "73 byte password",
			mutate:    func(r *RegisterRequest) { r.Password = "Str0ng!" + strings.Repeat("a", 66) },
			wantField: "password",
			wantMsg:   "Password must be 72 bytes or less",
		},
		{
			// 34 characters but 94 bytes
			name:      "multibyte password over 72 bytes",
			mutate:    func(r *RegisterRequest) { r.Password = "Aa1!" + strings.Repeat("€", 30) },
			wantField: "password",
			wantMsg:   "Password must be 72 bytes or less",
		},
		{name: "multibyte password within 72 bytes", mutate: func(r *RegisterRequest) { r.Password = "Aa1!" + strings.Repeat("€", 20) }},
		{name: "comma counts as special", mutate: func(r *RegisterRequest) { r.Password = "Str0ng,Pass" }},
		{name: "pipe counts as special", mutate: func(r *RegisterRequest) { r.Password = "Str0ng|Pass" }},
		{name: "quote counts as special", mutate: func(r *RegisterRequest) { r.Password = `Str0ng"Pass` }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)

			err := v.Struct(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.Equal(t, tt.wantMsg, verr.Fields[0].Message)
		})
	}
}

func TestValidator_ReportsEveryField(t *testing.T) {
	err := New().Struct(RegisterRequest{})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"username", "first_name", "last_name", "password"}, fields)
	assert.Contains(t, verr.Error(), "username: Username is required")
}

func TestValidator_LoginRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(LoginRequest{Username: "bob@example.com", Password: "anything-8"}))
	assert.Error(t, v.Struct(LoginRequest{Username: "bob", Password: "anything-8"}))
	assert.Error(t, v.Struct(LoginRequest{Username: "bob@example.com", Password: "short"}))
}

func TestValidator_ChatRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(ChatRequest{Prompt: "hello"}))
	assert.Error(t, v.Struct(ChatRequest{Prompt: ""}))
	assert.Error(t, v.Struct(ChatRequest{Prompt: strings.Repeat("x", 4001)}))
}

func TestDecodeError(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		var req LoginRequest
		err := json.Unmarshal([]byte(`{"username":`), &req)
		require.Error(t, err)

		verr := DecodeError(err)
		assert.Equal(t, []FieldError{{Field: "payload", Message: "invalid json"}}, verr.Fields)
	})

	t.Run("empty body", func(t *testing.T) {
		err := json.NewDecoder(strings.NewReader("")).Decode(&LoginRequest{})
		assert.Equal(t, "request body is empty", DecodeError(err).Fields[0].Message)
	})

	t.Run("type error", func(t *testing.T) {
		var req LoginRequest
		err := json.Unmarshal([]byte(`{"username": 42}`), &req)
		require.Error(t, err)

		verr := DecodeError(err)
		assert.Equal(t, "username", verr.Fields[0].Field)
	})
}
