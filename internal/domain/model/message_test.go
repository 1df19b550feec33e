// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

func TestIndexerMessage_Build(t *testing.T) {
	tests := []struct {
		name        string
		context     func() context.Context
		wantHeaders map[string]string
	}{
		{
			name: "headers copied from context",
			context: func() context.Context {
				ctx := context.Background()
				ctx = context.WithValue(ctx, constants.AuthorizationContextID, "Bearer token123")
				ctx = context.WithValue(ctx, constants.PrincipalContextID, "user123")
				return ctx
			},
			wantHeaders: map[string]string{
				constants.AuthorizationHeader: "Bearer token123",
				constants.XOnBehalfOfHeader:   "user123",
			},
		},
		{
			name:        "no headers without a signed-in viewer",
			context:     context.Background,
			wantHeaders: map[string]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := &IndexerMessage{Action: ActionDeleted, Tags: []string{}}
			result := msg.Build(tc.context(), "list-uid")
			require.NotNil(t, result)
			assert.Equal(t, ActionDeleted, result.Action)
			assert.Equal(t, "list-uid", result.Data)
			assert.Equal(t, tc.wantHeaders, result.Headers)
		})
	}
}

func TestIndexerMessage_JSON(t *testing.T) {
	msg := &IndexerMessage{Action: ActionDeleted, Data: "uid-1", Tags: []string{"t"}}
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"deleted","headers":null,"data":"uid-1","tags":["t"]}`, string(data))
}

func TestAccessCheckRequest_Tuple(t *testing.T) {
	req := AccessCheckRequest{
		Object:   "mailing_list_subscription:sub-1",
		Relation: "viewer",
		User:     "user:jdoe",
	}
	assert.Equal(t, "mailing_list_subscription:sub-1#viewer@user:jdoe", req.Tuple())
}
