// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it is written to logs.
package redaction

import "strings"

const mask = "***"

// RedactEmail keeps the first character of the local part and the domain.
// "john.doe@example.com" becomes "j***@example.com".
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return mask
	}

	return email[:1] + mask + email[at:]
}

// Redact masks everything but the first character of a value.
func Redact(value string) string {
	if value == "" {
		return ""
	}
	return value[:1] + mask
}
