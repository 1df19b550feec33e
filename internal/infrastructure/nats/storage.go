// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"

	"github.com/nats-io/nats.go/jetstream"
)

type storage struct {
	client *NATSClient
}

// GetMailingList retrieves a single mailing list by UID and returns its revision
func (s *storage) GetMailingList(ctx context.Context, uid string) (*model.MailingList, uint64, error) {
	slog.DebugContext(ctx, "nats storage: getting mailing list",
		"mailing_list_uid", uid)

	mailingList := &model.MailingList{}
	rev, err := s.get(ctx, constants.KVBucketNameMailingLists, uid, mailingList)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "mailing list not found", "mailing_list_uid", uid, "error", err)
			return nil, 0, errs.NewNotFound(fmt.Sprintf("mailing list %s not found", uid))
		}
		slog.ErrorContext(ctx, "failed to get mailing list", "error", err, "mailing_list_uid", uid)
		return nil, 0, wrapStorageError("failed to get mailing list", err)
	}

	slog.DebugContext(ctx, "nats storage: mailing list retrieved",
		"mailing_list_uid", uid,
		"revision", rev)

	return mailingList, rev, nil
}

// ListMailingLists returns every mailing list ordered by title
func (s *storage) ListMailingLists(ctx context.Context) ([]*model.MailingList, error) {
	slog.DebugContext(ctx, "nats storage: listing mailing lists")

	keys, err := s.keys(ctx, constants.KVBucketNameMailingLists)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list mailing list keys", "error", err)
		return nil, wrapStorageError("failed to list mailing lists", err)
	}

	mailingLists := make([]*model.MailingList, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, constants.KVLookupPrefix) {
			continue
		}
		mailingList := &model.MailingList{}
		if _, err := s.get(ctx, constants.KVBucketNameMailingLists, key, mailingList); err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				// deleted since the key listing
				continue
			}
			slog.ErrorContext(ctx, "failed to get mailing list", "error", err, "mailing_list_uid", key)
			return nil, wrapStorageError("failed to list mailing lists", err)
		}
		mailingLists = append(mailingLists, mailingList)
	}

	sort.Slice(mailingLists, func(i, j int) bool {
		if mailingLists[i].Title == mailingLists[j].Title {
			return mailingLists[i].UID < mailingLists[j].UID
		}
		return mailingLists[i].Title < mailingLists[j].Title
	})

	return mailingLists, nil
}

// DeleteMailingList deletes a mailing list from NATS KV store with revision checking
func (s *storage) DeleteMailingList(ctx context.Context, uid string, expectedRevision uint64) error {
	slog.DebugContext(ctx, "nats storage: deleting mailing list",
		"mailing_list_uid", uid,
		"expected_revision", expectedRevision)

	err := s.delete(ctx, constants.KVBucketNameMailingLists, uid, expectedRevision)
	if err != nil {
		switch {
		case errors.Is(err, jetstream.ErrKeyNotFound):
			return errs.NewNotFound(fmt.Sprintf("mailing list %s not found", uid))
		case isWrongRevision(err):
			slog.WarnContext(ctx, "mailing list changed since confirmation was built",
				"mailing_list_uid", uid,
				"expected_revision", expectedRevision)
			return errs.NewConflict("mailing list was modified, reload and try again", err)
		}
		slog.ErrorContext(ctx, "failed to delete mailing list", "error", err, "mailing_list_uid", uid)
		return wrapStorageError("failed to delete mailing list", err)
	}

	slog.DebugContext(ctx, "nats storage: mailing list deleted",
		"mailing_list_uid", uid)

	return nil
}

// CountSubscriptionsByMailingList counts the subscriptions indexed under the list.
// Lookup keys whose subscription is gone or belongs to another list are stale and not counted.
func (s *storage) CountSubscriptionsByMailingList(ctx context.Context, listUID string) (int, error) {
	if listUID == "" {
		return 0, errs.NewValidation("mailing list UID cannot be empty")
	}

	prefix := model.SubscriptionListLookupPrefix(listUID)
	keys, err := s.keys(ctx, constants.KVBucketNameSubscriptions, prefix+"*")
	if err != nil {
		slog.ErrorContext(ctx, "failed to list subscription lookup keys",
			"error", err,
			"mailing_list_uid", listUID)
		return 0, wrapStorageError("failed to count subscriptions", err)
	}

	count := 0
	for _, key := range keys {
		subscriptionUID := strings.TrimPrefix(key, prefix)
		subscription := &model.Subscription{}
		_, errGet := s.get(ctx, constants.KVBucketNameSubscriptions, subscriptionUID, subscription)
		switch {
		case errGet == nil && subscription.MailingListUID == listUID:
			count++
		case errGet == nil, errors.Is(errGet, jetstream.ErrKeyNotFound):
			slog.WarnContext(ctx, "stale subscription lookup key, not counted",
				"key", key,
				"mailing_list_uid", listUID,
				"subscription_uid", subscriptionUID)
		default:
			slog.ErrorContext(ctx, "failed to verify indexed subscription",
				"error", errGet,
				"subscription_uid", subscriptionUID)
			return 0, wrapStorageError("failed to count subscriptions", errGet)
		}
	}

	slog.DebugContext(ctx, "nats storage: subscriptions counted",
		"mailing_list_uid", listUID,
		"lookup_keys", len(keys),
		"count", count)

	return count, nil
}

// ListSubscriptions returns one page of subscriptions ordered by UID and the total count
func (s *storage) ListSubscriptions(ctx context.Context, offset, limit int) ([]*model.Subscription, int, error) {
	slog.DebugContext(ctx, "nats storage: listing subscriptions",
		"offset", offset,
		"limit", limit)

	keys, err := s.keys(ctx, constants.KVBucketNameSubscriptions)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list subscription keys", "error", err)
		return nil, 0, wrapStorageError("failed to list subscriptions", err)
	}

	uids := keys[:0]
	for _, key := range keys {
		if !strings.HasPrefix(key, constants.KVLookupPrefix) {
			uids = append(uids, key)
		}
	}
	sort.Strings(uids)

	total := len(uids)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*model.Subscription{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	subscriptions := make([]*model.Subscription, 0, end-offset)
	for _, uid := range uids[offset:end] {
		subscription := &model.Subscription{}
		if _, err := s.get(ctx, constants.KVBucketNameSubscriptions, uid, subscription); err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}
			slog.ErrorContext(ctx, "failed to get subscription", "error", err, "subscription_uid", uid)
			return nil, 0, wrapStorageError("failed to list subscriptions", err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	return subscriptions, total, nil
}

// GetSubscription retrieves a single subscription by UID
func (s *storage) GetSubscription(ctx context.Context, uid string) (*model.Subscription, error) {
	slog.DebugContext(ctx, "nats storage: getting subscription",
		"subscription_uid", uid)

	subscription := &model.Subscription{}
	if _, err := s.get(ctx, constants.KVBucketNameSubscriptions, uid, subscription); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, errs.NewNotFound(fmt.Sprintf("subscription %s not found", uid))
		}
		slog.ErrorContext(ctx, "failed to get subscription", "error", err, "subscription_uid", uid)
		return nil, wrapStorageError("failed to get subscription", err)
	}

	return subscription, nil
}

// IsReady checks if the storage is ready by verifying the client connection
func (s *storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

// get retrieves a model from the NATS KV store by bucket and key.
// It unmarshals the data into the provided model and returns the revision.
func (s *storage) get(ctx context.Context, bucket, key string, model any) (uint64, error) {
	if key == "" {
		return 0, errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.client.bucket(bucket)
	if err != nil {
		return 0, err
	}

	data, errGet := kv.Get(ctx, key)
	if errGet != nil {
		return 0, errGet
	}

	if errUnmarshal := json.Unmarshal(data.Value(), model); errUnmarshal != nil {
		return 0, errs.NewUnexpected(fmt.Sprintf("malformed value for key %s", key), errUnmarshal)
	}

	return data.Revision(), nil
}

// keys lists the keys of a bucket, optionally restricted by subject filters
func (s *storage) keys(ctx context.Context, bucket string, filters ...string) ([]string, error) {
	kv, err := s.client.bucket(bucket)
	if err != nil {
		return nil, err
	}

	var lister jetstream.KeyLister
	if len(filters) > 0 {
		lister, err = kv.ListKeysFiltered(ctx, filters...)
	} else {
		lister, err = kv.ListKeys(ctx)
	}
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return []string{}, nil
		}
		return nil, err
	}
	defer func() {
		_ = lister.Stop()
	}()

	keys := []string{}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case key, ok := <-lister.Keys():
			if !ok {
				return keys, nil
			}
			keys = append(keys, key)
		}
	}
}

// delete removes a key from the NATS KV store with revision checking.
func (s *storage) delete(ctx context.Context, bucket, key string, expectedRevision uint64) error {
	if key == "" {
		return errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.client.bucket(bucket)
	if err != nil {
		return err
	}

	return kv.Delete(ctx, key, jetstream.LastRevision(expectedRevision))
}

// isWrongRevision reports a failed optimistic concurrency check
func isWrongRevision(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) {
		return true
	}
	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

// wrapStorageError keeps typed errors and reports everything else as unavailable storage
func wrapStorageError(message string, err error) error {
	var (
		validation  errs.Validation
		unexpected  errs.Unexpected
		unavailable errs.ServiceUnavailable
	)
	if errors.As(err, &validation) || errors.As(err, &unexpected) || errors.As(err, &unavailable) {
		return err
	}
	return errs.NewServiceUnavailable(message, err)
}

// NewStorage creates the NATS KV backed entity storage
func NewStorage(client *NATSClient) port.ReaderWriter {
	return &storage{
		client: client,
	}
}
