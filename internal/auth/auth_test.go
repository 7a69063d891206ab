package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, h.Verify("secret1", hash))
	assert.False(t, h.Verify("secret2", hash))
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost)
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)

	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestTokenIssuerRejects(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	other := NewTokenIssuer("other", time.Hour)

	token, err := other.Issue("admin")
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("s3cret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err = expired.Issue("admin")
	require.NoError(t, err)
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAdminCredentials(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("letmein")
	require.NoError(t, err)

	creds := AdminCredentials{Username: "admin", PasswordHash: hash, Hasher: h}
	assert.True(t, creds.Check("admin", "letmein"))
	assert.False(t, creds.Check("admin", "nope"))
	assert.False(t, creds.Check("root", "letmein"))
	assert.False(t, AdminCredentials{Username: "admin", Hasher: h}.Check("admin", ""))
}
