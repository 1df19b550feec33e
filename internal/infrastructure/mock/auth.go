// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides mock implementations for testing purposes.
package mock

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// MockAuthService reads the principal from an unverified token, falling back to
// JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL
type MockAuthService struct{}

// ParsePrincipal returns the token's principal claim (or subject) without verifying the signature
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	if token != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
			if principal, ok := claims["principal"].(string); ok && principal != "" {
				logger.DebugContext(ctx, "parsed principal from unverified token", "user_id", principal)
				return principal, nil
			}
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				logger.DebugContext(ctx, "parsed subject from unverified token", "user_id", sub)
				return sub, nil
			}
		} else {
			logger.DebugContext(ctx, "token is not a JWT, using local principal", "error", err)
		}
	}

	principal := os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")

	if principal == "" {
		return "", errors.NewUnauthorized("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL environment variable not set")
	}

	logger.DebugContext(ctx, "parsed principal",
		"user_id", principal,
	)

	return principal, nil
}

// NewMockAuthService creates a new mock authentication service
func NewMockAuthService() port.Authenticator {
	return &MockAuthService{}
}
