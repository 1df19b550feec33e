// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/cmd/mailing-list-admin/service"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// newHandler mounts the screens on a goa muxer and wraps it with the middleware chain
func newHandler(admin *service.MailingListAdmin, authService port.Authenticator, users port.UserReader, languages port.LanguageManager) http.Handler {
	mux := goahttp.NewMuxer()
	admin.Mount(mux)

	var handler http.Handler = mux
	handler = middleware.LanguageMiddleware(languages)(handler)
	handler = middleware.ViewerMiddleware(authService, users)(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	// Probes are not traced.
	return otelhttp.NewHandler(handler, constants.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/livez" && r.URL.Path != "/readyz"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
