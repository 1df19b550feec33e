// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
)

// PublishedMessage is a message recorded by MockMessagePublisher
type PublishedMessage struct {
	Type    string
	Subject string
	Message any
}

// MockMessagePublisher records published messages
type MockMessagePublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	err      error
}

// Ensure MockMessagePublisher implements the MessagePublisher interface
var _ port.MessagePublisher = (*MockMessagePublisher)(nil)

// NewMockMessagePublisher creates a new mock publisher for testing
func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{}
}

// Indexer records an indexer message
func (m *MockMessagePublisher) Indexer(ctx context.Context, subject string, message any) error {
	return m.record(ctx, "indexer", subject, message)
}

// Access records an access control message
func (m *MockMessagePublisher) Access(ctx context.Context, subject string, message any) error {
	return m.record(ctx, "access", subject, message)
}

// Event records a domain event
func (m *MockMessagePublisher) Event(ctx context.Context, subject string, message any) error {
	return m.record(ctx, "event", subject, message)
}

func (m *MockMessagePublisher) record(ctx context.Context, messageType, subject string, message any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	slog.InfoContext(ctx, "mock message published",
		"subject", subject,
		"message_type", messageType,
	)
	m.messages = append(m.messages, PublishedMessage{Type: messageType, Subject: subject, Message: message})
	return nil
}

// SetError makes every publish fail with err
func (m *MockMessagePublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Messages returns a copy of the recorded messages
func (m *MockMessagePublisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}
