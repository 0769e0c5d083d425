package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "zero selects default", cost: 0, want: DefaultCost},
		{name: "below minimum is clamped", cost: 1, want: bcrypt.MinCost},
		{name: "above maximum is clamped", cost: 99, want: bcrypt.MaxCost},
		{name: "valid cost is kept", cost: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewBcryptHasher(tt.cost).Cost())
		})
	}
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hash)

	t.Run("matching password", func(t *testing.T) {
		ok, err := h.Verify("Str0ng!Pass", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password is a mismatch, not an error", func(t *testing.T) {
		ok, err := h.Verify("wrong-password", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		again, err := h.Hash("Str0ng!Pass")
		require.NoError(t, err)
		assert.NotEqual(t, hash, again)
	})
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-hash", strings.Repeat("x", 60)} {
		ok, err := h.Verify("Str0ng!Pass", hash)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrMalformedHash, "hash %q", hash)
	}
}
