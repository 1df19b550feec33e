// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"log/slog"
)

// Authenticator validates a bearer token and returns the principal it was issued to
type Authenticator interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}
