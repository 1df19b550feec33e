// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameMailingLists is the name of the KV bucket for mailing lists.
	KVBucketNameMailingLists = "mailing-lists"

	// KVBucketNameSubscriptions is the name of the KV bucket for subscriptions.
	KVBucketNameSubscriptions = "mailing-list-subscriptions"

	// KVLookupSubscriptionListPrefix indexes subscriptions by mailing list:
	// lookup.subscription_list.{mailing_list_uid}.{subscription_uid}
	KVLookupSubscriptionListPrefix = "lookup.subscription_list.%s."

	// KVLookupPrefix is shared by every secondary index key
	KVLookupPrefix = "lookup."
)
