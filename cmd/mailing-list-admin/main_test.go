// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContextKey struct{}

func TestNewServerRequestContextOutlivesSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), testContextKey{}, "kept"))
	srv := newServer(ctx, ":0", http.NotFoundHandler())
	require.NotNil(t, srv.BaseContext)

	cancel()

	base := srv.BaseContext(nil)
	assert.NoError(t, base.Err(), "in-flight requests must not be cancelled by the shutdown signal")
	assert.Equal(t, "kept", base.Value(testContextKey{}))
	assert.Equal(t, ":0", srv.Addr)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}
