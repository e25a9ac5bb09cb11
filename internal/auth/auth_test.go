package auth

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
)

func newTestTokenService(t *testing.T, d time.Duration) *TokenService {
	t.Helper()
	key := make([]byte, keyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)

	s, err := NewTokenService(key, d)
	require.NoError(t, err)
	return s
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyLength)

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second, "key is reused across restarts")
}

func TestLoadOrGenerateKey_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService(make([]byte, 16), time.Hour)
	assert.Error(t, err)
}

func TestTokenService_IssueVerify(t *testing.T) {
	s := newTestTokenService(t, time.Hour)

	token, expires, err := s.Issue("ops")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin())
	assert.Contains(t, claims.TokenID, "tok-")
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	s := newTestTokenService(t, time.Hour)
	_, _, err := s.Issue("  ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTokenService_Expired(t *testing.T) {
	s := newTestTokenService(t, time.Minute)
	token, _, err := s.Issue("ops")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestTokenService_WrongKey(t *testing.T) {
	token, _, err := newTestTokenService(t, time.Hour).Issue("ops")
	require.NoError(t, err)

	_, err = newTestTokenService(t, time.Hour).Verify(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = newTestTokenService(t, time.Hour).Verify("v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestClaimsContext(t *testing.T) {
	ctx := t.Context()
	assert.Nil(t, ClaimsFromContext(ctx))
	assert.False(t, ClaimsFromContext(ctx).IsAdmin())

	c := &Claims{Subject: "ops", Role: RoleAdmin}
	assert.Same(t, c, ClaimsFromContext(WithClaims(ctx, c)))
}
