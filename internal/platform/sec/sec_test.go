// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/platform/sec"
)

func newKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip tests that a minted token verifies and carries its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key := newKeyPair(t)
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "libris")

	token, err := service.GenerateAccessToken("desk-1", sec.RoleLibrarian, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "desk-1", claims.Username)
	assert.Equal(t, "librarian", claims.Role)
}

/*
TestTokenService_Rejects covers expired, foreign-issuer and foreign-key tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	key := newKeyPair(t)
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "libris")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateAccessToken("desk-1", sec.RoleAdmin, -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		other := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "elsewhere")
		token, err := other.GenerateAccessToken("desk-1", sec.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_key", func(t *testing.T) {
		otherKey := newKeyPair(t)
		other := sec.NewTokenServiceFromKeys(otherKey, &otherKey.PublicKey, "libris")
		token, err := other.GenerateAccessToken("desk-1", sec.RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})
}

/*
TestTokenService_VerifyOnly ensures a service without a private key refuses to sign.
*/
func TestTokenService_VerifyOnly(t *testing.T) {
	key := newKeyPair(t)
	service := sec.NewTokenServiceFromKeys(nil, &key.PublicKey, "libris")

	_, err := service.GenerateAccessToken("desk-1", sec.RoleLibrarian, time.Hour)
	assert.ErrorIs(t, err, sec.ErrSigningDisabled)
}

/*
TestUserRole_AtLeast tests the staff role hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleLibrarian))
	assert.True(t, sec.RoleLibrarian.AtLeast(sec.RoleLibrarian))
	assert.False(t, sec.RoleClerk.AtLeast(sec.RoleLibrarian))
	assert.False(t, sec.UserRole("patron").AtLeast(sec.RoleClerk))
	assert.False(t, sec.UserRole("patron").Valid())
}
