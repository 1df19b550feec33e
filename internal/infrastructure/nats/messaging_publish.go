// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// messagingPublisher announces mailing list deletions on NATS
type messagingPublisher struct {
	client *NATSClient
}

// Indexer asks the search indexer to drop the deleted mailing list
func (m *messagingPublisher) Indexer(ctx context.Context, subject string, message any) error {
	return m.publish(ctx, subject, message, "indexer")
}

// Access asks the access control sync to remove every tuple of the deleted mailing list
func (m *messagingPublisher) Access(ctx context.Context, subject string, message any) error {
	return m.publish(ctx, subject, message, "access")
}

// Event announces a completed admin operation to any interested service
func (m *messagingPublisher) Event(ctx context.Context, subject string, message any) error {
	return m.publish(ctx, subject, message, "event")
}

// publish sends message as JSON. Delivery is fire-and-forget; callers log failures.
func (m *messagingPublisher) publish(ctx context.Context, subject string, message any, messageType string) error {
	if err := m.client.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "NATS client is not ready for publishing",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewServiceUnavailable("NATS client is not ready", err)
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal message to JSON",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewUnexpected("failed to marshal message", err)
	}

	if err := m.client.conn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "failed to publish message to NATS",
			"error", err,
			"subject", subject,
			"message_type", messageType,
		)
		return errors.NewServiceUnavailable("failed to publish message", err)
	}

	slog.DebugContext(ctx, "deletion message published",
		"subject", subject,
		"message_type", messageType,
		"message_size", len(data),
	)

	return nil
}

// NewMessagePublisher creates the deletion message publisher
func NewMessagePublisher(client *NATSClient) port.MessagePublisher {
	return &messagingPublisher{
		client: client,
	}
}
