// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates bearer tokens issued by the LFX gateway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "lfx-v2-mailing-list-admin"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	jwksCacheTTL       = 5 * time.Minute
	allowedClockSkew   = 30 * time.Second
)

// JWTAuthConfig holds the token validation settings
type JWTAuthConfig struct {
	// JWKSURL is where the signing keys are published
	JWKSURL string
	// Audience is the expected "aud" claim
	Audience string
	// Issuer is the expected "iss" claim
	Issuer string
}

// heimdallClaims carries the claims added by the gateway
type heimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate ensures the principal claim is present
func (c *heimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuth validates signed tokens against a cached key set
type JWTAuth struct {
	validator *validator.Validator
}

// ParsePrincipal validates the token and returns its principal claim
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", errs.NewUnauthorized("missing bearer token")
	}

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.WarnContext(ctx, "failed to validate token", "error", err)
		return "", errs.NewUnauthorized("invalid token", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		logger.ErrorContext(ctx, "unexpected claims type", "type", fmt.Sprintf("%T", parsed))
		return "", errs.NewUnexpected("failed to read token claims")
	}

	custom, ok := claims.CustomClaims.(*heimdallClaims)
	if !ok {
		return "", errs.NewUnexpected("failed to read custom token claims")
	}

	logger.DebugContext(ctx, "parsed principal",
		"user_id", custom.Principal,
		"subject", claims.RegisteredClaims.Subject,
	)

	return custom.Principal, nil
}

func newJWTAuth(keyFunc func(context.Context) (interface{}, error), algorithm validator.SignatureAlgorithm, issuer, audience string) (*JWTAuth, error) {
	v, err := validator.New(
		keyFunc,
		algorithm,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &heimdallClaims{}
		}),
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, err
	}
	return &JWTAuth{validator: v}, nil
}

// NewJWTAuth creates a token validator backed by a caching JWKS provider
func NewJWTAuth(config JWTAuthConfig) (port.Authenticator, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}
	if config.Issuer == "" {
		config.Issuer = defaultIssuer
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, errs.NewValidation("invalid JWKS URL", err)
	}

	// The issuer is not a URL, so the key set location is given explicitly.
	issuerURL, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, errs.NewValidation("invalid issuer", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	auth, err := newJWTAuth(provider.KeyFunc, signatureAlgorithm, config.Issuer, config.Audience)
	if err != nil {
		return nil, errs.NewUnexpected("failed to set up token validator", err)
	}
	return auth, nil
}
