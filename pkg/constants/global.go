// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the mailing list admin service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "mailing-list-admin"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"

	// AuthorizationHeader is the header name for the authorization
	AuthorizationHeader = "Authorization"

	// XOnBehalfOfHeader is the header name for the on behalf of principal
	XOnBehalfOfHeader = "x-on-behalf-of"
)

// NATS request/reply subjects
const (
	// AccessCheckSubject is the NATS subject for relationship checks against fga-sync
	AccessCheckSubject = "lfx.access_check.request"

	// UserGetUsernameSubject is the NATS subject for resolving a principal to a username
	UserGetUsernameSubject = "lfx.auth-service.username.get"
)

// NATS publish subjects
const (
	// IndexMailingListSubject is the indexer subject for mailing lists
	IndexMailingListSubject = "lfx.index.mailing_list"

	// DeleteAllAccessMailingListSubject removes every access tuple of a mailing list
	DeleteAllAccessMailingListSubject = "lfx.delete_all_access.mailing_list"

	// MailingListDeletedSubject announces a completed mailing list deletion
	MailingListDeletedSubject = "lfx.mailing-list-admin.mailing_list_deleted"
)

// Object types used in access checks
const (
	ObjectTypeSubscription = "mailing_list_subscription"
	ObjectTypeMailingList  = "mailing_list"
	ObjectTypePermission   = "permission"
	ObjectTypeUser         = "user"
)

// OpenFGA relations
const (
	// RelationViewer defines the viewer permission level
	RelationViewer = "viewer"

	// RelationWriter defines the writer permission level, required to update or delete
	RelationWriter = "writer"

	// RelationGranted defines the relation checked for site-wide permissions
	RelationGranted = "granted"
)
