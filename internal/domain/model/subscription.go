// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// Subscription is an email address subscribed to a single mailing list.
// MailingListUID always refers to an existing MailingList.
type Subscription struct {
	UID            string    `json:"uid"`
	MailingListUID string    `json:"mailing_list_uid"`
	Title          string    `json:"title"`
	Email          string    `json:"email"`
	Active         bool      `json:"active"`
	OwnerUID       string    `json:"owner_uid"`
	Langcode       string    `json:"langcode"`
	CreatedAt      time.Time `json:"created_at"`
	ChangedAt      time.Time `json:"changed_at"`
}

// Label returns the display label of the subscription
func (s *Subscription) Label() string {
	if s == nil {
		return ""
	}
	return s.Title
}

// Language returns the entity langcode, "und" when unset
func (s *Subscription) Language() string {
	if s == nil || s.Langcode == "" {
		return constants.LangcodeNotSpecified
	}
	return s.Langcode
}

// ListLookupKey returns the secondary index key linking the subscription to its list
func (s *Subscription) ListLookupKey() string {
	return SubscriptionListLookupPrefix(s.MailingListUID) + s.UID
}
