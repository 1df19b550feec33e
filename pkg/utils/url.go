// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// ExpandPath replaces {name} placeholders in pattern with escaped params.
// Placeholders without a matching param are left untouched.
func ExpandPath(pattern string, params map[string]string) string {
	path := pattern
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	return path
}

// BuildURL appends the query string encoded from opts (a struct tagged with
// `url:"..."`) to path. A nil opts returns path unchanged.
func BuildURL(path string, opts any) (string, error) {
	if opts == nil {
		return path, nil
	}

	values, err := query.Values(opts)
	if err != nil {
		return "", err
	}

	encoded := values.Encode()
	if encoded == "" {
		return path, nil
	}

	return path + "?" + encoded, nil
}
