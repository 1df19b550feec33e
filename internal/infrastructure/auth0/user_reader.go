// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth0 resolves account details through the Auth0 management API.
package auth0

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/auth0/go-auth0/management"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// Config holds the management API credentials
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
}

type userReader struct {
	users *management.UserManager
}

// Username returns the account's username, falling back to nickname then name
func (u *userReader) Username(ctx context.Context, principal string) (string, error) {
	if principal == "" {
		return "", errs.NewValidation("principal cannot be empty")
	}

	user, err := u.users.Read(ctx, principal, management.IncludeFields("user_id", "username", "nickname", "name"))
	if err != nil {
		var apiErr management.Error
		if errors.As(err, &apiErr) && apiErr.Status() == http.StatusNotFound {
			return "", errs.NewNotFound(fmt.Sprintf("user %s not found", principal))
		}
		slog.ErrorContext(ctx, "failed to read user from auth0", "error", err, "principal", principal)
		return "", errs.NewServiceUnavailable("user directory unavailable", err)
	}

	for _, name := range []string{user.GetUsername(), user.GetNickname(), user.GetName()} {
		if name != "" {
			return name, nil
		}
	}
	return principal, nil
}

func newUserReader(m *management.Management) port.UserReader {
	return &userReader{users: m.User}
}

// NewUserReader creates a username reader backed by the Auth0 management API
func NewUserReader(ctx context.Context, config Config) (port.UserReader, error) {
	if config.Domain == "" || config.ClientID == "" || config.ClientSecret == "" {
		return nil, errs.NewValidation("AUTH0_DOMAIN, AUTH0_CLIENT_ID and AUTH0_CLIENT_SECRET are required")
	}

	m, err := management.New(config.Domain,
		management.WithClientCredentials(ctx, config.ClientID, config.ClientSecret),
	)
	if err != nil {
		return nil, errs.NewUnexpected("failed to create auth0 management client", err)
	}
	return newUserReader(m), nil
}
