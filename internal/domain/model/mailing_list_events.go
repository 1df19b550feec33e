// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "time"

// MailingListDeletedEvent is published to lfx.mailing-list-admin.mailing_list_deleted
// after a mailing list with no subscriptions has been removed.
type MailingListDeletedEvent struct {
	MailingList *MailingList `json:"mailing_list"`
	DeletedBy   string       `json:"deleted_by,omitempty"`
	DeletedAt   time.Time    `json:"deleted_at"`
}
