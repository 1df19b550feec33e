// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// UserReader resolves account identifiers to display names
type UserReader interface {
	Username(ctx context.Context, principal string) (string, error)
}
