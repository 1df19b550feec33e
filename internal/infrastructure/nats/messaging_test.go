// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	errs "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRequestUsername(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		principal   string
		reply       string
		requestErr  error
		want        string
		wantErrType any
	}{
		{name: "resolved", principal: "auth0|jdoe", reply: "jdoe", want: "jdoe"},
		{name: "empty reply", principal: "auth0|ghost", reply: "", wantErrType: &errs.NotFound{}},
		{name: "error reply", principal: "auth0|jdoe", reply: `{"error":"user lookup failed"}`, wantErrType: &errs.Unexpected{}},
		{name: "request failure", principal: "auth0|jdoe", requestErr: errors.New("nats: timeout"), wantErrType: &errs.ServiceUnavailable{}},
		{name: "empty principal", principal: "", wantErrType: &errs.Validation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeRequester{reply: []byte(tt.reply), err: tt.requestErr}
			reader := &messageRequest{conn: conn}

			got, err := reader.Username(ctx, tt.principal)
			if tt.wantErrType != nil {
				require.Error(t, err)
				assert.ErrorAs(t, err, tt.wantErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{constants.UserGetUsernameSubject}, conn.subjects)
			assert.Equal(t, []string{tt.principal}, conn.payloads)
		})
	}
}

func TestMessagePublisherNotReady(t *testing.T) {
	publisher := NewMessagePublisher(&NATSClient{})
	ctx := context.Background()

	for name, publish := range map[string]func(context.Context, string, any) error{
		"indexer": publisher.Indexer,
		"access":  publisher.Access,
		"event":   publisher.Event,
	} {
		t.Run(name, func(t *testing.T) {
			err := publish(ctx, constants.MailingListDeletedSubject, map[string]string{"uid": newsletterUID})
			assert.ErrorAs(t, err, &errs.ServiceUnavailable{})
		})
	}
}
