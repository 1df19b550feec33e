// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MailingListWriter defines the interface for removing mailing lists
type MailingListWriter interface {
	// DeleteMailingList deletes a mailing list; the delete fails with a conflict
	// when the stored revision no longer matches expectedRevision
	DeleteMailingList(ctx context.Context, uid string, expectedRevision uint64) error
}
