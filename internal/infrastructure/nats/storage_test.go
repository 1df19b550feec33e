// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	newsletterUID = "11111111-1111-1111-1111-111111111111"
	digestUID     = "22222222-2222-2222-2222-222222222222"
)

func setupStorage(t *testing.T) (*storage, *fakeKV, *fakeKV) {
	t.Helper()

	lists := newFakeKV()
	lists.put(t, newsletterUID, &model.MailingList{UID: newsletterUID, Title: "Newsletter"}, 7)
	lists.put(t, digestUID, &model.MailingList{UID: digestUID, Title: "Digest"}, 3)

	subs := newFakeKV()
	for _, s := range []*model.Subscription{
		{UID: "sub-b", MailingListUID: newsletterUID, Title: "Jane", Email: "jane@example.com"},
		{UID: "sub-a", MailingListUID: newsletterUID, Title: "John", Email: "john@example.com"},
		{UID: "sub-c", MailingListUID: digestUID, Title: "Solo", Email: "solo@example.com"},
	} {
		subs.put(t, s.UID, s, 1)
		subs.put(t, s.ListLookupKey(), nil, 1)
	}

	client := &NATSClient{kvStore: map[string]jetstream.KeyValue{
		constants.KVBucketNameMailingLists:  lists,
		constants.KVBucketNameSubscriptions: subs,
	}}
	return &storage{client: client}, lists, subs
}

func TestStorageGetMailingList(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		uid         string
		getErr      error
		wantTitle   string
		wantRev     uint64
		wantErrType any
	}{
		{name: "found", uid: newsletterUID, wantTitle: "Newsletter", wantRev: 7},
		{name: "not found", uid: "missing", wantErrType: &errs.NotFound{}},
		{name: "empty uid", uid: "", wantErrType: &errs.Validation{}},
		{name: "bucket failure", uid: newsletterUID, getErr: errors.New("timeout"), wantErrType: &errs.ServiceUnavailable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, lists, _ := setupStorage(t)
			lists.getErr = tt.getErr

			list, rev, err := s.GetMailingList(ctx, tt.uid)
			if tt.wantErrType != nil {
				require.Error(t, err)
				assert.ErrorAs(t, err, tt.wantErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, list.Title)
			assert.Equal(t, tt.wantRev, rev)
		})
	}
}

func TestStorageGetMailingListMalformed(t *testing.T) {
	s, lists, _ := setupStorage(t)
	lists.entries[newsletterUID].value = []byte("{not json")

	_, _, err := s.GetMailingList(context.Background(), newsletterUID)
	require.Error(t, err)
	assert.ErrorAs(t, err, &errs.Unexpected{})
}

func TestStorageMissingBucket(t *testing.T) {
	s := &storage{client: &NATSClient{}}

	_, _, err := s.GetMailingList(context.Background(), newsletterUID)
	assert.ErrorAs(t, err, &errs.ServiceUnavailable{})

	_, err = s.CountSubscriptionsByMailingList(context.Background(), newsletterUID)
	assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
}

func TestStorageListMailingLists(t *testing.T) {
	s, lists, _ := setupStorage(t)
	lists.put(t, "lookup.mailing_list_title.newsletter", nil, 1)

	got, err := s.ListMailingLists(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Digest", got[0].Title)
	assert.Equal(t, "Newsletter", got[1].Title)

	empty := &storage{client: &NATSClient{kvStore: map[string]jetstream.KeyValue{
		constants.KVBucketNameMailingLists: newFakeKV(),
	}}}
	got, err = empty.ListMailingLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStorageDeleteMailingList(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		uid         string
		deleteErr   error
		wantErrType any
	}{
		{name: "deleted", uid: digestUID},
		{name: "not found", uid: "missing", wantErrType: &errs.NotFound{}},
		{
			name:        "revision mismatch",
			uid:         digestUID,
			deleteErr:   &jetstream.APIError{Code: 400, ErrorCode: jetstream.JSErrCodeStreamWrongLastSequence, Description: "wrong last sequence: 4"},
			wantErrType: &errs.Conflict{},
		},
		{name: "key exists", uid: digestUID, deleteErr: jetstream.ErrKeyExists, wantErrType: &errs.Conflict{}},
		{name: "storage down", uid: digestUID, deleteErr: errors.New("nats: timeout"), wantErrType: &errs.ServiceUnavailable{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, lists, _ := setupStorage(t)
			lists.deleteErr = tt.deleteErr

			err := s.DeleteMailingList(ctx, tt.uid, 3)
			if tt.wantErrType != nil {
				require.Error(t, err)
				assert.ErrorAs(t, err, tt.wantErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.uid}, lists.deleted)
		})
	}
}

func TestStorageCountSubscriptionsByMailingList(t *testing.T) {
	s, _, subs := setupStorage(t)
	ctx := context.Background()

	count, err := s.CountSubscriptionsByMailingList(ctx, newsletterUID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"lookup.subscription_list." + newsletterUID + ".*"}, subs.filters)

	count, err = s.CountSubscriptionsByMailingList(ctx, "33333333-3333-3333-3333-333333333333")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.CountSubscriptionsByMailingList(ctx, "")
	assert.ErrorAs(t, err, &errs.Validation{})

	subs.listErr = errors.New("nats: connection closed")
	_, err = s.CountSubscriptionsByMailingList(ctx, newsletterUID)
	assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
}

func TestStorageCountSubscriptionsSkipsStaleLookupKeys(t *testing.T) {
	s, _, subs := setupStorage(t)
	ctx := context.Background()

	// index entry left behind by a deleted subscription
	subs.put(t, model.SubscriptionListLookupPrefix(digestUID)+"sub-gone", nil, 1)
	// index entry of a subscription moved to another list
	subs.put(t, model.SubscriptionListLookupPrefix(digestUID)+"sub-a", nil, 1)

	count, err := s.CountSubscriptionsByMailingList(ctx, digestUID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.CountSubscriptionsByMailingList(ctx, "33333333-3333-3333-3333-333333333333")
	require.NoError(t, err)
	assert.Zero(t, count)

	subs.getErr = errors.New("nats: timeout")
	_, err = s.CountSubscriptionsByMailingList(ctx, digestUID)
	assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
}

func TestStorageListSubscriptions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		offset   int
		limit    int
		wantUIDs []string
	}{
		{name: "all", offset: 0, limit: 50, wantUIDs: []string{"sub-a", "sub-b", "sub-c"}},
		{name: "first page", offset: 0, limit: 2, wantUIDs: []string{"sub-a", "sub-b"}},
		{name: "second page", offset: 2, limit: 2, wantUIDs: []string{"sub-c"}},
		{name: "past the end", offset: 10, limit: 2, wantUIDs: []string{}},
		{name: "negative offset", offset: -1, limit: 1, wantUIDs: []string{"sub-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := setupStorage(t)

			got, total, err := s.ListSubscriptions(ctx, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, 3, total)

			uids := make([]string, 0, len(got))
			for _, sub := range got {
				uids = append(uids, sub.UID)
			}
			assert.Equal(t, tt.wantUIDs, uids)
		})
	}
}

func TestStorageGetSubscription(t *testing.T) {
	s, _, _ := setupStorage(t)
	ctx := context.Background()

	sub, err := s.GetSubscription(ctx, "sub-a")
	require.NoError(t, err)
	assert.Equal(t, "John", sub.Title)
	assert.Equal(t, newsletterUID, sub.MailingListUID)

	_, err = s.GetSubscription(ctx, "sub-z")
	assert.ErrorAs(t, err, &errs.NotFound{})
}

func TestStorageIsReady(t *testing.T) {
	s := NewStorage(&NATSClient{})
	err := s.IsReady(context.Background())
	assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
}
