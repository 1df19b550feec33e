// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import "context"

// MessagePublisher defines the interface for publishing mailing list change messages
type MessagePublisher interface {
	// Indexer publishes indexer messages for search and discovery services
	Indexer(ctx context.Context, subject string, message any) error

	// Access publishes access control messages consumed by fga-sync
	Access(ctx context.Context, subject string, message any) error

	// Event publishes domain events for other services
	Event(ctx context.Context, subject string, message any) error
}
