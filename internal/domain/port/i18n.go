// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
)

// Translator translates interface strings into the language carried by ctx
type Translator interface {
	Translate(ctx context.Context, msg string, args map[string]string) string
	FormatPlural(ctx context.Context, count int, singular, plural string, args map[string]string) string
}

// LanguageManager lists the configured site languages
type LanguageManager interface {
	Language(langcode string) (model.Language, bool)
	Languages() []model.Language
}

// DateFormatter formats timestamps with named formats
type DateFormatter interface {
	Format(t time.Time, format string) string
}
