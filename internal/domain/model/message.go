// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// MessageAction is the action carried by an indexer message
type MessageAction string

// ActionDeleted removes a document from the search index
const ActionDeleted MessageAction = "deleted"

// IndexerMessage is the NATS message consumed by the search indexer
type IndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	Tags    []string          `json:"tags"`
}

// Build fills headers from ctx and sets Data to the UID of the deleted object
func (g *IndexerMessage) Build(ctx context.Context, uid string) *IndexerMessage {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok {
		headers[constants.AuthorizationHeader] = authorization
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok {
		headers[constants.XOnBehalfOfHeader] = principal
	}
	g.Headers = headers
	g.Data = uid
	return g
}

// AccessCheckRequest asks whether user holds relation on object
type AccessCheckRequest struct {
	Object   string `json:"object"`
	Relation string `json:"relation"`
	User     string `json:"user"`
}

// Tuple returns the request in "object#relation@user" form
func (r AccessCheckRequest) Tuple() string {
	return r.Object + "#" + r.Relation + "@" + r.User
}
