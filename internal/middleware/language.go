// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/i18n"
)

// LanguageMiddleware negotiates the interface language from the "language" query
// parameter, then Accept-Language. Unknown codes are ignored.
func LanguageMiddleware(languages port.LanguageManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if langcode := negotiate(r, languages); langcode != "" {
				r = r.WithContext(i18n.WithLanguage(r.Context(), langcode))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func negotiate(r *http.Request, languages port.LanguageManager) string {
	if code := strings.TrimSpace(r.URL.Query().Get("language")); code != "" {
		if _, ok := languages.Language(code); ok {
			return code
		}
	}

	// Accept-Language entries are taken in listed order; quality values are not weighed.
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if tag == "" || tag == "*" {
			continue
		}
		for _, code := range []string{tag, strings.SplitN(tag, "-", 2)[0]} {
			code = strings.ToLower(code)
			if _, ok := languages.Language(code); ok {
				return code
			}
		}
	}
	return ""
}
