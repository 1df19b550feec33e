// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

type messageRequest struct {
	conn requester
}

func (m *messageRequest) get(ctx context.Context, subject, key string) (string, error) {
	msg, err := m.conn.RequestWithContext(ctx, subject, []byte(key))
	if err != nil {
		return "", errors.NewServiceUnavailable(fmt.Sprintf("request on %s failed", subject), err)
	}

	// Try to parse as JSON error response first
	var errorResponse struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(msg.Data, &errorResponse); err == nil && errorResponse.Error != "" {
		slog.WarnContext(ctx, "message responded with an error", "subject", subject, "key", key, "error", errorResponse.Error)
		return "", errors.NewUnexpected(errorResponse.Error)
	}

	attribute := string(msg.Data)
	if attribute == "" {
		return "", errors.NewNotFound(fmt.Sprintf("attribute %s not found for key: %s", subject, key))
	}

	return attribute, nil
}

// Username resolves a principal to its username via the auth service
func (m *messageRequest) Username(ctx context.Context, principal string) (string, error) {
	if principal == "" {
		return "", errors.NewValidation("principal cannot be empty")
	}
	return m.get(ctx, constants.UserGetUsernameSubject, principal)
}

// NewUserReader creates a username reader using NATS messaging.
func NewUserReader(client *NATSClient) port.UserReader {
	return &messageRequest{
		conn: client.conn,
	}
}
