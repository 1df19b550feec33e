// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	lfxerrors "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// statusCode maps the typed errors returned by the use cases to HTTP statuses
func statusCode(err error) int {
	var (
		validation  lfxerrors.Validation
		notFound    lfxerrors.NotFound
		conflict    lfxerrors.Conflict
		unauth      lfxerrors.Unauthorized
		forbidden   lfxerrors.Forbidden
		unavailable lfxerrors.ServiceUnavailable
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failure details from the page
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

func logError(ctx context.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
		return
	}
	slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
}
