package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("reviewer123")
	require.NoError(t, err)
	assert.NotEqual(t, "reviewer123", hash)

	assert.NoError(t, h.Compare(hash, "reviewer123"))
	assert.ErrorIs(t, h.Compare(hash, "reviewer124"), ErrMismatch)
}

func TestPasswordPolicy(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash("1234")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = h.Hash(strings.Repeat("x", MaxPasswordLen+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	assert.NoError(t, CheckPolicy(strings.Repeat("x", MaxPasswordLen)))
}

func TestCompareWithoutHash(t *testing.T) {
	h := NewBcryptHasher(0)
	assert.ErrorIs(t, h.Compare("", "anything"), ErrMismatch)
}
