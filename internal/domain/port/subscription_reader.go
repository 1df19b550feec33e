// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
)

// SubscriptionReader defines the interface for reading subscription data
type SubscriptionReader interface {
	// CountSubscriptionsByMailingList counts subscriptions whose mailing_list_uid is listUID
	CountSubscriptionsByMailingList(ctx context.Context, listUID string) (int, error)

	// ListSubscriptions returns one page of subscriptions ordered by UID and the total count
	ListSubscriptions(ctx context.Context, offset, limit int) ([]*model.Subscription, int, error)

	// GetSubscription retrieves a subscription by UID
	GetSubscription(ctx context.Context, uid string) (*model.Subscription, error)
}
