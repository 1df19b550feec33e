// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

func newTestLister(d *testDeps) MailingListLister {
	return NewMailingListListingOrchestrator(
		WithCollectionReader(d.repo),
		WithCollectionAccessChecker(d.access),
		WithCollectionTranslator(d.catalog),
	)
}

func TestMailingListListingRender(t *testing.T) {
	ctx := context.Background()

	t.Run("administrator gets edit and delete links", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		d.access.GrantPermission("admin", constants.PermissionAdministerMailingLists)

		listing, err := newTestLister(d).Render(ctx, adminViewer)
		require.NoError(t, err)
		require.Len(t, listing.Table.Rows, 3)

		// ordered by title
		assert.Equal(t, "Digest", listing.Table.Rows[0].Cells[model.FieldTitle].Text)
		ops := listing.Table.Rows[0].Cells[model.FieldOperations].Operations
		require.Len(t, ops, 2)
		assert.Equal(t, constants.RouteMailingListDeleteForm, ops[1].URL.Route)
		assert.Equal(t, digestUID, ops[1].URL.Params["uid"])
		assert.Contains(t, listing.Attached, NoIndexMeta)
	})

	t.Run("viewer without access sees no operations", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()

		listing, err := newTestLister(d).Render(ctx, plainViewer)
		require.NoError(t, err)
		for _, row := range listing.Table.Rows {
			assert.Empty(t, row.Cells[model.FieldOperations].Operations)
		}
	})

	t.Run("per-list delete access", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		d.access.GrantAccess((&model.MailingList{UID: digestUID}).Ref(), constants.OperationDelete, "nobody")

		listing, err := newTestLister(d).Render(ctx, plainViewer)
		require.NoError(t, err)
		ops := listing.Table.Rows[0].Cells[model.FieldOperations].Operations
		require.Len(t, ops, 1)
		assert.Equal(t, "Delete", ops[0].Title)
	})

	t.Run("empty collection", func(t *testing.T) {
		d := newTestDeps(t)
		listing, err := newTestLister(d).Render(ctx, plainViewer)
		require.NoError(t, err)
		assert.Empty(t, listing.Table.Rows)
		assert.Equal(t, "There are no mailing lists yet.", listing.Table.Empty)
	})

	t.Run("storage failure", func(t *testing.T) {
		d := newTestDeps(t)
		d.repo.SetGlobalError(errs.NewServiceUnavailable("kv down"))
		_, err := newTestLister(d).Render(ctx, plainViewer)
		assert.Error(t, err)
	})
}
