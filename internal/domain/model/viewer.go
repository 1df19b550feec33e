// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// Viewer is the account a screen is rendered for
type Viewer struct {
	Principal string
	Username  string
	Anonymous bool
}

// AnonymousViewer returns a viewer with no session
func AnonymousViewer() *Viewer {
	return &Viewer{Anonymous: true}
}

// IsAnonymous reports whether the viewer is unauthenticated. A nil viewer is anonymous.
func (v *Viewer) IsAnonymous() bool {
	return v == nil || v.Anonymous || v.Principal == ""
}

// ViewerFromContext returns the viewer stored by the HTTP middleware, or an anonymous viewer
func ViewerFromContext(ctx context.Context) *Viewer {
	if v, ok := ctx.Value(constants.ViewerContextID).(*Viewer); ok && v != nil {
		return v
	}
	return AnonymousViewer()
}

// ContextWithViewer stores the viewer and its principal in ctx
func ContextWithViewer(ctx context.Context, v *Viewer) context.Context {
	ctx = context.WithValue(ctx, constants.ViewerContextID, v)
	if v != nil && v.Principal != "" {
		ctx = context.WithValue(ctx, constants.PrincipalContextID, v.Principal)
	}
	return ctx
}
