// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// SubscriptionListLookupPrefix returns the index key prefix of every subscription of a list
func SubscriptionListLookupPrefix(mailingListUID string) string {
	return fmt.Sprintf(constants.KVLookupSubscriptionListPrefix, mailingListUID)
}
