package service

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/auth"
)

// TokenVerifier is the part of the Firebase Auth client this service uses.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// AuthService verifies that a bearer token belongs to the configured admin
// account with a verified email address.
type AuthService struct {
	verifier   TokenVerifier
	adminEmail string
}

func NewAuthService(verifier TokenVerifier, adminEmail string) *AuthService {
	return &AuthService{verifier: verifier, adminEmail: adminEmail}
}

// VerifyAdminAccess reports whether token identifies the admin account.
// Verification failures are logged and reported as denial, never as an
// error: the caller only needs yes or no.
func (s *AuthService) VerifyAdminAccess(ctx context.Context, token string) bool {
	if s.adminEmail == "" {
		log.Println("ADMIN_EMAIL not configured, denying admin access")
		return false
	}

	decoded, err := s.verifier.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		log.Printf("Error verifying admin access: %v", err)
		return false
	}

	email, _ := decoded.Claims["email"].(string)
	emailVerified, _ := decoded.Claims["email_verified"].(bool)

	return email == s.adminEmail && emailVerified
}

// RevokeToken revokes every refresh token of the account the token belongs
// to, ending its sessions.
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	decoded, err := s.verifier.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}
	return s.verifier.RevokeRefreshTokens(ctx, decoded.UID)
}
