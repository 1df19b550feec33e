// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
)

// AccessChecker answers site-wide permission and per-entity operation checks
type AccessChecker interface {
	// HasPermission reports whether the viewer holds a site-wide permission
	HasPermission(ctx context.Context, viewer *model.Viewer, permission string) (bool, error)

	// Access reports whether the viewer may perform operation on entity
	Access(ctx context.Context, entity model.EntityRef, operation string, viewer *model.Viewer) (bool, error)
}
