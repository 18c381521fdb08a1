package service

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	token      *auth.Token
	verifyErr  error
	revokedUID string
	revokeErr  error
}

func (f *fakeVerifier) VerifyIDTokenAndCheckRevoked(_ context.Context, _ string) (*auth.Token, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.token, nil
}

func (f *fakeVerifier) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revokedUID = uid
	return f.revokeErr
}

func adminToken(email string, verified bool) *auth.Token {
	return &auth.Token{
		UID: "uid-1",
		Claims: map[string]interface{}{
			"email":          email,
			"email_verified": verified,
		},
	}
}

func TestVerifyAdminAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("admin with verified email", func(t *testing.T) {
		svc := NewAuthService(&fakeVerifier{token: adminToken("admin@pedl.fr", true)}, "admin@pedl.fr")
		assert.True(t, svc.VerifyAdminAccess(ctx, "token"))
	})

	t.Run("wrong email denied", func(t *testing.T) {
		svc := NewAuthService(&fakeVerifier{token: adminToken("other@pedl.fr", true)}, "admin@pedl.fr")
		assert.False(t, svc.VerifyAdminAccess(ctx, "token"))
	})

	t.Run("unverified email denied", func(t *testing.T) {
		svc := NewAuthService(&fakeVerifier{token: adminToken("admin@pedl.fr", false)}, "admin@pedl.fr")
		assert.False(t, svc.VerifyAdminAccess(ctx, "token"))
	})

	t.Run("verification failure denied", func(t *testing.T) {
		svc := NewAuthService(&fakeVerifier{verifyErr: errors.New("token revoked")}, "admin@pedl.fr")
		assert.False(t, svc.VerifyAdminAccess(ctx, "token"))
	})

	t.Run("missing admin email denies everyone", func(t *testing.T) {
		svc := NewAuthService(&fakeVerifier{token: adminToken("admin@pedl.fr", true)}, "")
		assert.False(t, svc.VerifyAdminAccess(ctx, "token"))
	})
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()

	verifier := &fakeVerifier{token: adminToken("admin@pedl.fr", true)}
	svc := NewAuthService(verifier, "admin@pedl.fr")

	require.NoError(t, svc.RevokeToken(ctx, "token"))
	assert.Equal(t, "uid-1", verifier.revokedUID)
}

func TestRevokeToken_VerifyFailure(t *testing.T) {
	verifier := &fakeVerifier{verifyErr: errors.New("expired")}
	svc := NewAuthService(verifier, "admin@pedl.fr")

	err := svc.RevokeToken(context.Background(), "token")
	require.Error(t, err)
	assert.Empty(t, verifier.revokedUID)
}
