// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
)

// MailingListReader defines the interface for reading mailing list data
type MailingListReader interface {
	// GetMailingList retrieves a mailing list by UID with its storage revision
	GetMailingList(ctx context.Context, uid string) (*model.MailingList, uint64, error)

	// ListMailingLists retrieves every mailing list ordered by title
	ListMailingLists(ctx context.Context) ([]*model.MailingList, error)
}
