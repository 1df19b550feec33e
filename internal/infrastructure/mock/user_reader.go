// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// MockUserReader resolves principals from an in-memory table.
// Unknown principals resolve to themselves.
type MockUserReader struct {
	mu        sync.RWMutex
	usernames map[string]string
	err       error
}

var _ port.UserReader = (*MockUserReader)(nil)

// NewMockUserReader returns a user reader with no known users
func NewMockUserReader() *MockUserReader {
	return &MockUserReader{usernames: make(map[string]string)}
}

// AddUser registers a username for principal
func (r *MockUserReader) AddUser(principal, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usernames[principal] = username
}

// SetError makes every lookup fail with err
func (r *MockUserReader) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Username returns the registered username
func (r *MockUserReader) Username(_ context.Context, principal string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return "", r.err
	}
	if principal == "" {
		return "", errors.NewValidation("principal is required")
	}
	if username, ok := r.usernames[principal]; ok {
		return username, nil
	}
	return principal, nil
}
