// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"

// EntityRef identifies an entity for an access check
type EntityRef struct {
	Type     string
	UID      string
	OwnerUID string
}

// Object returns the "type:uid" object name used by access checks
func (r EntityRef) Object() string {
	return r.Type + ":" + r.UID
}

// Ref returns the access check reference of the subscription
func (s *Subscription) Ref() EntityRef {
	return EntityRef{Type: constants.ObjectTypeSubscription, UID: s.UID, OwnerUID: s.OwnerUID}
}

// Ref returns the access check reference of the mailing list
func (ml *MailingList) Ref() EntityRef {
	return EntityRef{Type: constants.ObjectTypeMailingList, UID: ml.UID}
}
