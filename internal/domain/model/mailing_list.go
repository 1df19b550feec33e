// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain entities and view trees of the mailing list admin screens.
package model

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// MailingList represents a mailing list entity
type MailingList struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Bundle      string    `json:"bundle"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label returns the display label of the mailing list
func (ml *MailingList) Label() string {
	if ml == nil {
		return ""
	}
	return ml.Title
}

// BundleName returns the entity bundle, defaulting to mailing_list
func (ml *MailingList) BundleName() string {
	if ml == nil || ml.Bundle == "" {
		return constants.BundleMailingList
	}
	return ml.Bundle
}
