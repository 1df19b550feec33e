// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
)

// MockAccessChecker grants permissions and entity operations from in-memory tables.
// Anonymous viewers are never granted anything; owners may always view their entities.
type MockAccessChecker struct {
	mu          sync.RWMutex
	permissions map[string]map[string]bool // principal -> permission
	grants      map[string]map[string]bool // object#operation -> principal
	err         error
}

var _ port.AccessChecker = (*MockAccessChecker)(nil)

// NewMockAccessChecker returns an access checker with no grants
func NewMockAccessChecker() *MockAccessChecker {
	return &MockAccessChecker{
		permissions: make(map[string]map[string]bool),
		grants:      make(map[string]map[string]bool),
	}
}

// GrantPermission gives principal a site-wide permission
func (c *MockAccessChecker) GrantPermission(principal, permission string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.permissions[principal] == nil {
		c.permissions[principal] = make(map[string]bool)
	}
	c.permissions[principal][permission] = true
}

// GrantAccess allows principal to perform operation on entity
func (c *MockAccessChecker) GrantAccess(entity model.EntityRef, operation, principal string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := entity.Object() + "#" + operation
	if c.grants[key] == nil {
		c.grants[key] = make(map[string]bool)
	}
	c.grants[key][principal] = true
}

// SetError makes every check fail with err
func (c *MockAccessChecker) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// HasPermission reports a granted site-wide permission
func (c *MockAccessChecker) HasPermission(ctx context.Context, viewer *model.Viewer, permission string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.err != nil {
		return false, c.err
	}
	if viewer.IsAnonymous() {
		return false, nil
	}

	granted := c.permissions[viewer.Principal][permission]
	slog.DebugContext(ctx, "mock access checker: permission check",
		"principal", viewer.Principal,
		"permission", permission,
		"granted", granted,
	)
	return granted, nil
}

// Access reports a granted entity operation
func (c *MockAccessChecker) Access(ctx context.Context, entity model.EntityRef, operation string, viewer *model.Viewer) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.err != nil {
		return false, c.err
	}
	if viewer.IsAnonymous() {
		return false, nil
	}
	if operation == "view" && entity.OwnerUID != "" && entity.OwnerUID == viewer.Principal {
		return true, nil
	}

	granted := c.grants[entity.Object()+"#"+operation][viewer.Principal]
	slog.DebugContext(ctx, "mock access checker: access check",
		"object", entity.Object(),
		"operation", operation,
		"principal", viewer.Principal,
		"granted", granted,
	)
	return granted, nil
}
