// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Entity bundles
const (
	// BundleMailingList is the default bundle of mailing list entities
	BundleMailingList = "mailing_list"

	// BundleSubscription is the default bundle of subscription entities
	BundleSubscription = "mailing_list_subscription"
)

// Permissions
const (
	// PermissionAdministerSubscriptions grants the privileged subscription columns
	PermissionAdministerSubscriptions = "administer mailing list subscriptions"

	// PermissionAdministerMailingLists grants mailing list deletion
	PermissionAdministerMailingLists = "administer mailing lists"
)

// Entity operations checked per entity
const (
	OperationView   = "view"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Language codes
const (
	// LangcodeNotSpecified marks an entity with no language
	LangcodeNotSpecified = "und"
)

// Date format names understood by the date formatter
const (
	DateFormatShort  = "short"
	DateFormatMedium = "medium"
	DateFormatLong   = "long"
)

// Listing
const (
	// SubscriptionsPerPage is the subscription listing page size
	SubscriptionsPerPage = 50
)

// Route names
const (
	RouteMailingListCollection  = "entity.mailing_list.collection"
	RouteMailingListDeleteForm  = "entity.mailing_list.delete_form"
	RouteMailingListEditForm    = "entity.mailing_list.edit_form"
	RouteSubscriptionCollection = "entity.mailing_list_subscription.collection"
	RouteSubscriptionCanonical  = "entity.mailing_list_subscription.canonical"
	RouteSubscriptionEditForm   = "entity.mailing_list_subscription.edit_form"
	RouteSubscriptionDeleteForm = "entity.mailing_list_subscription.delete_form"
	RouteAnonymousAccess        = "mailing_list.anonymous_subscription_access"
)
