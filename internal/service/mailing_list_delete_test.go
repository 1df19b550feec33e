// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

func newTestDeleter(d *testDeps, extra ...mailingListDeleteOrchestratorOption) MailingListDeleter {
	opts := []mailingListDeleteOrchestratorOption{
		WithMailingListReader(d.repo),
		WithMailingListWriter(d.repo),
		WithSubscriptionCounter(d.repo),
		WithDeleteTranslator(d.catalog),
		WithPublisher(d.publisher),
	}
	return NewMailingListDeleteOrchestrator(append(opts, extra...)...)
}

func TestMailingListDeletePrepare(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(d *testDeps)
		listUID  string
		validate func(t *testing.T, view *model.ConfirmView, err error)
	}{
		{
			name:    "two subscriptions block deletion",
			setup:   func(d *testDeps) { d.seedLists() },
			listUID: newsletterUID,
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				require.NoError(t, err)
				assert.Equal(t, model.ConfirmStateBlocked, view.State)
				assert.Equal(t, "Are you sure you want to delete Newsletter?", view.Title)
				assert.Equal(t, "There are 2 subscriptions to the Newsletter mailing list. You can not remove this mailing list until you have removed all its subscriptions.", view.Description)
				require.NotNil(t, view.Manage)
				assert.Equal(t, "Manage subscriptions", view.Manage.Title)
				assert.Equal(t, constants.RouteSubscriptionCollection, view.Manage.URL.Route)
				assert.Nil(t, view.Action)
				assert.Nil(t, view.Cancel)
				assert.Empty(t, view.ConfirmLabel)
			},
		},
		{
			name:    "one subscription uses the singular form",
			setup:   func(d *testDeps) { d.seedLists() },
			listUID: singleUID,
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				require.NoError(t, err)
				assert.Equal(t, model.ConfirmStateBlocked, view.State)
				assert.Equal(t, "There is 1 subscription to the Single mailing list. You can not remove this mailing list until you have removed that subscription.", view.Description)
			},
		},
		{
			name: "many subscriptions",
			setup: func(d *testDeps) {
				d.repo.AddMailingList(&model.MailingList{UID: "big", Title: "Big"})
				d.addSubscriptions("big", 57)
			},
			listUID: "big",
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				require.NoError(t, err)
				assert.Contains(t, view.Description, "There are 57 subscriptions to the Big mailing list.")
			},
		},
		{
			name:    "no subscriptions is confirmable",
			setup:   func(d *testDeps) { d.seedLists() },
			listUID: digestUID,
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				require.NoError(t, err)
				assert.Equal(t, model.ConfirmStateConfirmable, view.State)
				assert.Equal(t, "Are you sure you want to delete Digest?", view.Question)
				assert.Equal(t, "Delete", view.ConfirmLabel)
				require.NotNil(t, view.Cancel)
				assert.Equal(t, constants.RouteMailingListCollection, view.Cancel.URL.Route)
				require.NotNil(t, view.Action)
				assert.Equal(t, constants.RouteMailingListDeleteForm, view.Action.Route)
				assert.Equal(t, digestUID, view.Action.Params["uid"])
				assert.Nil(t, view.Manage)
			},
		},
		{
			name:    "missing mailing list",
			setup:   func(d *testDeps) {},
			listUID: "missing",
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				assert.Nil(t, view)
				var notFound errs.NotFound
				assert.ErrorAs(t, err, &notFound)
			},
		},
		{
			name: "count failure propagates",
			setup: func(d *testDeps) {
				d.seedLists()
				d.repo.SetErrorForOperation("CountSubscriptionsByMailingList", errs.NewServiceUnavailable("kv down"))
			},
			listUID: digestUID,
			validate: func(t *testing.T, view *model.ConfirmView, err error) {
				assert.Nil(t, view)
				var unavailable errs.ServiceUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDeps(t)
			tc.setup(d)
			view, err := newTestDeleter(d).Prepare(ctx, tc.listUID)
			tc.validate(t, view, err)
		})
	}
}

func TestMailingListDeletePluralBoundary(t *testing.T) {
	ctx := context.Background()

	for _, n := range []int{1, 2, 3, 10} {
		t.Run(fmt.Sprintf("%d subscriptions", n), func(t *testing.T) {
			d := newTestDeps(t)
			d.repo.AddMailingList(&model.MailingList{UID: "list", Title: "Weekly"})
			d.addSubscriptions("list", n)

			view, err := newTestDeleter(d).Prepare(ctx, "list")
			require.NoError(t, err)
			if n == 1 {
				assert.Contains(t, view.Description, "There is 1 subscription ")
			} else {
				assert.Contains(t, view.Description, fmt.Sprintf("There are %d subscriptions ", n))
			}
		})
	}
}

func TestMailingListDeleteStateIsRecomputed(t *testing.T) {
	ctx := context.Background()
	d := newTestDeps(t)
	d.seedLists()
	deleter := newTestDeleter(d)

	view, err := deleter.Prepare(ctx, newsletterUID)
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmStateBlocked, view.State)

	d.repo.RemoveSubscription("sub-1")
	d.repo.RemoveSubscription("sub-2")

	view, err = deleter.Prepare(ctx, newsletterUID)
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmStateConfirmable, view.State)
}

func TestMailingListDeleteConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an empty list", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		ctx := context.WithValue(ctx, constants.PrincipalContextID, "admin")

		result, err := newTestDeleter(d).Confirm(ctx, digestUID)
		require.NoError(t, err)
		assert.Equal(t, "content mailing_list: deleted Digest.", result.Message)
		assert.Equal(t, constants.RouteMailingListCollection, result.Redirect.Route)

		_, _, err = d.repo.GetMailingList(ctx, digestUID)
		var notFound errs.NotFound
		assert.ErrorAs(t, err, &notFound)

		messages := d.publisher.Messages()
		require.Len(t, messages, 3)
		assert.Equal(t, constants.IndexMailingListSubject, messages[0].Subject)
		indexer, ok := messages[0].Message.(*model.IndexerMessage)
		require.True(t, ok)
		assert.Equal(t, model.ActionDeleted, indexer.Action)
		assert.Equal(t, digestUID, indexer.Data)
		assert.Equal(t, "admin", indexer.Headers[constants.XOnBehalfOfHeader])
		assert.Equal(t, constants.DeleteAllAccessMailingListSubject, messages[1].Subject)
		assert.Equal(t, digestUID, messages[1].Message)
		event, ok := messages[2].Message.(model.MailingListDeletedEvent)
		require.True(t, ok)
		assert.Equal(t, "admin", event.DeletedBy)
		assert.Equal(t, "Digest", event.MailingList.Title)
	})

	t.Run("uses the list bundle in the status message", func(t *testing.T) {
		d := newTestDeps(t)
		d.repo.AddMailingList(&model.MailingList{UID: "ann", Title: "Announcements", Bundle: "announcement"})

		result, err := newTestDeleter(d).Confirm(ctx, "ann")
		require.NoError(t, err)
		assert.Equal(t, "content announcement: deleted Announcements.", result.Message)
	})

	t.Run("refuses a list with subscriptions", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()

		result, err := newTestDeleter(d).Confirm(ctx, newsletterUID)
		assert.Nil(t, result)
		var conflict errs.Conflict
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, err.Error(), "There are 2 subscriptions")

		_, _, err = d.repo.GetMailingList(ctx, newsletterUID)
		assert.NoError(t, err)
		assert.Empty(t, d.publisher.Messages())
	})

	t.Run("missing list", func(t *testing.T) {
		d := newTestDeps(t)
		_, err := newTestDeleter(d).Confirm(ctx, "missing")
		var notFound errs.NotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("storage delete failure propagates", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		d.repo.SetErrorForOperation("DeleteMailingList", errs.NewServiceUnavailable("kv down"))

		_, err := newTestDeleter(d).Confirm(ctx, digestUID)
		var unavailable errs.ServiceUnavailable
		assert.ErrorAs(t, err, &unavailable)
		assert.Empty(t, d.publisher.Messages())
	})

	t.Run("publish failure does not fail the deletion", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		d.publisher.SetError(errs.NewServiceUnavailable("nats down"))

		result, err := newTestDeleter(d).Confirm(ctx, digestUID)
		require.NoError(t, err)
		assert.Equal(t, "content mailing_list: deleted Digest.", result.Message)
		assert.Equal(t, 2, d.repo.GetMailingListCount())
	})

	t.Run("works without a publisher", func(t *testing.T) {
		d := newTestDeps(t)
		d.seedLists()
		deleter := NewMailingListDeleteOrchestrator(
			WithMailingListReader(d.repo),
			WithMailingListWriter(d.repo),
			WithSubscriptionCounter(d.repo),
			WithDeleteTranslator(d.catalog),
		)
		_, err := deleter.Confirm(ctx, digestUID)
		assert.NoError(t, err)
	})
}

func TestMailingListDeleteAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		viewer    *model.Viewer
		setup     func(d *testDeps)
		assertErr func(t *testing.T, err error)
	}{
		{
			name:   "anonymous viewer",
			viewer: nil,
			assertErr: func(t *testing.T, err error) {
				var unauthorized errs.Unauthorized
				assert.ErrorAs(t, err, &unauthorized)
			},
		},
		{
			name:   "viewer without permission",
			viewer: &model.Viewer{Principal: "someone"},
			assertErr: func(t *testing.T, err error) {
				var forbidden errs.Forbidden
				assert.ErrorAs(t, err, &forbidden)
			},
		},
		{
			name:   "mailing list administrator",
			viewer: &model.Viewer{Principal: "admin"},
			setup: func(d *testDeps) {
				d.access.GrantPermission("admin", constants.PermissionAdministerMailingLists)
			},
			assertErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "delete granted on the list",
			viewer: &model.Viewer{Principal: "owner"},
			setup: func(d *testDeps) {
				d.access.GrantAccess((&model.MailingList{UID: digestUID}).Ref(), constants.OperationDelete, "owner")
			},
			assertErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:   "access check failure",
			viewer: &model.Viewer{Principal: "admin"},
			setup: func(d *testDeps) {
				d.access.SetError(errs.NewServiceUnavailable("fga down"))
			},
			assertErr: func(t *testing.T, err error) {
				var unavailable errs.ServiceUnavailable
				assert.ErrorAs(t, err, &unavailable)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDeps(t)
			d.seedLists()
			if tc.setup != nil {
				tc.setup(d)
			}
			deleter := newTestDeleter(d, WithDeleteAccessChecker(d.access))

			ctx := context.Background()
			if tc.viewer != nil {
				ctx = model.ContextWithViewer(ctx, tc.viewer)
			}

			_, err := deleter.Prepare(ctx, digestUID)
			tc.assertErr(t, err)
			_, err = deleter.Confirm(ctx, digestUID)
			tc.assertErr(t, err)
		})
	}
}

func TestNewMailingListDeleteOrchestratorRequiresDependencies(t *testing.T) {
	d := newTestDeps(t)

	assert.PanicsWithValue(t, "mailingListReader is required", func() {
		NewMailingListDeleteOrchestrator()
	})
	assert.PanicsWithValue(t, "mailingListWriter is required", func() {
		NewMailingListDeleteOrchestrator(WithMailingListReader(d.repo))
	})
	assert.PanicsWithValue(t, "subscriptionReader is required", func() {
		NewMailingListDeleteOrchestrator(WithMailingListReader(d.repo), WithMailingListWriter(d.repo))
	})
	assert.PanicsWithValue(t, "translator is required", func() {
		NewMailingListDeleteOrchestrator(WithMailingListReader(d.repo), WithMailingListWriter(d.repo), WithSubscriptionCounter(d.repo))
	})
}
