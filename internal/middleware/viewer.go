// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/log"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/redaction"
)

// ViewerMiddleware resolves the bearer token into a viewer stored on the request context.
// Requests without a usable token continue as anonymous viewers; handlers decide
// whether that is enough.
func ViewerMiddleware(authenticator port.Authenticator, users port.UserReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authorization := r.Header.Get(constants.AuthorizationHeader)
			viewer := resolveViewer(ctx, authorization, authenticator, users)
			if !viewer.IsAnonymous() {
				ctx = log.AppendCtx(ctx, slog.String("principal", viewer.Principal))
				// forwarded on published messages
				ctx = context.WithValue(ctx, constants.AuthorizationContextID, authorization)
			}
			next.ServeHTTP(w, r.WithContext(model.ContextWithViewer(ctx, viewer)))
		})
	}
}

func resolveViewer(ctx context.Context, authorization string, authenticator port.Authenticator, users port.UserReader) *model.Viewer {
	if authorization == "" {
		return model.AnonymousViewer()
	}

	principal, err := authenticator.ParsePrincipal(ctx, authorization, slog.Default())
	if err != nil || principal == "" {
		slog.DebugContext(ctx, "continuing as anonymous viewer", "error", err)
		return model.AnonymousViewer()
	}

	viewer := &model.Viewer{Principal: principal, Username: principal}
	if users == nil {
		return viewer
	}
	username, err := users.Username(ctx, principal)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve username, using principal",
			"error", err,
			"principal", redaction.Redact(principal),
		)
		return viewer
	}
	viewer.Username = username
	return viewer
}
