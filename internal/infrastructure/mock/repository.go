// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// Global mock repository instance to share data between all repositories
var (
	globalMockRepo     *MockRepository
	globalMockRepoOnce = &sync.Once{}
)

// MockRepository is an in-memory port.ReaderWriter
type MockRepository struct {
	mailingLists         map[string]*model.MailingList
	mailingListRevisions map[string]uint64
	subscriptions        map[string]*model.Subscription
	subscriptionIndex    map[string]string // lookup key -> subscription UID

	// error simulation
	globalError       error
	operationErrors   map[string]error
	mailingListErrors map[string]error
	notReady          error

	mu sync.RWMutex
}

var _ port.ReaderWriter = (*MockRepository)(nil)

// NewMockRepository returns the shared mock repository seeded with sample data
func NewMockRepository() *MockRepository {
	globalMockRepoOnce.Do(func() {
		globalMockRepo = newEmptyRepository()
		globalMockRepo.seed(time.Now())
	})
	return globalMockRepo
}

func newEmptyRepository() *MockRepository {
	return &MockRepository{
		mailingLists:         make(map[string]*model.MailingList),
		mailingListRevisions: make(map[string]uint64),
		subscriptions:        make(map[string]*model.Subscription),
		subscriptionIndex:    make(map[string]string),
		operationErrors:      make(map[string]error),
		mailingListErrors:    make(map[string]error),
	}
}

func (m *MockRepository) seed(now time.Time) {
	lists := []*model.MailingList{
		{
			UID:         "0f6d1c0e-6b0c-4b8a-9d39-4a0f3f7f1a01",
			Title:       "Newsletter",
			Description: "Monthly project newsletter",
			CreatedAt:   now.Add(-72 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
		{
			UID:         "0f6d1c0e-6b0c-4b8a-9d39-4a0f3f7f1a02",
			Title:       "Digest",
			Description: "Weekly digest, no subscribers yet",
			CreatedAt:   now.Add(-48 * time.Hour),
			UpdatedAt:   now.Add(-48 * time.Hour),
		},
	}
	for _, ml := range lists {
		m.AddMailingList(ml)
	}

	subscriptions := []*model.Subscription{
		{
			UID:            "7c1e3d52-52f4-4f0e-a0d6-2b8d6c7e0b01",
			MailingListUID: lists[0].UID,
			Title:          "Jane Doe",
			Email:          "jane.doe@example.org",
			Active:         true,
			OwnerUID:       "jdoe",
			Langcode:       "en",
			CreatedAt:      now.Add(-70 * time.Hour),
			ChangedAt:      now.Add(-2 * time.Hour),
		},
		{
			UID:            "7c1e3d52-52f4-4f0e-a0d6-2b8d6c7e0b02",
			MailingListUID: lists[0].UID,
			Title:          "Jean Dupont",
			Email:          "jean.dupont@example.org",
			Active:         false,
			OwnerUID:       "jdupont",
			Langcode:       "fr",
			CreatedAt:      now.Add(-60 * time.Hour),
			ChangedAt:      now.Add(-1 * time.Hour),
		},
	}
	for _, s := range subscriptions {
		m.AddSubscription(s)
	}
}

func (m *MockRepository) simulatedError(operation, mailingListUID string) error {
	if m.globalError != nil {
		return m.globalError
	}
	if err, ok := m.operationErrors[operation]; ok {
		return err
	}
	if mailingListUID != "" {
		if err, ok := m.mailingListErrors[mailingListUID]; ok {
			return err
		}
	}
	return nil
}

// GetMailingList retrieves a mailing list and its revision
func (m *MockRepository) GetMailingList(ctx context.Context, uid string) (*model.MailingList, uint64, error) {
	slog.DebugContext(ctx, "mock mailing list: getting mailing list", "mailing_list_uid", uid)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulatedError("GetMailingList", uid); err != nil {
		return nil, 0, err
	}

	ml, exists := m.mailingLists[uid]
	if !exists {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("mailing list with UID %s not found", uid))
	}

	mlCopy := *ml
	return &mlCopy, m.mailingListRevisions[uid], nil
}

// ListMailingLists returns every mailing list ordered by title
func (m *MockRepository) ListMailingLists(ctx context.Context) ([]*model.MailingList, error) {
	slog.DebugContext(ctx, "mock mailing list: listing mailing lists")

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulatedError("ListMailingLists", ""); err != nil {
		return nil, err
	}

	lists := make([]*model.MailingList, 0, len(m.mailingLists))
	for _, ml := range m.mailingLists {
		mlCopy := *ml
		lists = append(lists, &mlCopy)
	}
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].Title == lists[j].Title {
			return lists[i].UID < lists[j].UID
		}
		return lists[i].Title < lists[j].Title
	})
	return lists, nil
}

// DeleteMailingList deletes a mailing list with revision checking
func (m *MockRepository) DeleteMailingList(ctx context.Context, uid string, expectedRevision uint64) error {
	slog.DebugContext(ctx, "mock mailing list: deleting mailing list",
		"mailing_list_uid", uid,
		"expected_revision", expectedRevision,
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.simulatedError("DeleteMailingList", uid); err != nil {
		return err
	}

	if _, exists := m.mailingLists[uid]; !exists {
		return errors.NewNotFound("mailing list not found")
	}

	currentRevision := m.mailingListRevisions[uid]
	if currentRevision != expectedRevision {
		return errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	delete(m.mailingLists, uid)
	delete(m.mailingListRevisions, uid)

	return nil
}

// CountSubscriptionsByMailingList counts index keys under the list's lookup prefix
func (m *MockRepository) CountSubscriptionsByMailingList(ctx context.Context, listUID string) (int, error) {
	slog.DebugContext(ctx, "mock subscription: counting subscriptions", "mailing_list_uid", listUID)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulatedError("CountSubscriptionsByMailingList", listUID); err != nil {
		return 0, err
	}

	prefix := model.SubscriptionListLookupPrefix(listUID)
	count := 0
	for key := range m.subscriptionIndex {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count, nil
}

// ListSubscriptions returns a page of subscriptions ordered by UID
func (m *MockRepository) ListSubscriptions(ctx context.Context, offset, limit int) ([]*model.Subscription, int, error) {
	slog.DebugContext(ctx, "mock subscription: listing subscriptions", "offset", offset, "limit", limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulatedError("ListSubscriptions", ""); err != nil {
		return nil, 0, err
	}

	uids := make([]string, 0, len(m.subscriptions))
	for uid := range m.subscriptions {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	total := len(uids)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []*model.Subscription{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]*model.Subscription, 0, end-offset)
	for _, uid := range uids[offset:end] {
		subCopy := *m.subscriptions[uid]
		page = append(page, &subCopy)
	}
	return page, total, nil
}

// GetSubscription retrieves a subscription by UID
func (m *MockRepository) GetSubscription(ctx context.Context, uid string) (*model.Subscription, error) {
	slog.DebugContext(ctx, "mock subscription: getting subscription", "subscription_uid", uid)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.simulatedError("GetSubscription", ""); err != nil {
		return nil, err
	}

	sub, exists := m.subscriptions[uid]
	if !exists {
		return nil, errors.NewNotFound(fmt.Sprintf("subscription with UID %s not found", uid))
	}

	subCopy := *sub
	return &subCopy, nil
}

// IsReady reports the simulated readiness of the repository
func (m *MockRepository) IsReady(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notReady
}

// AddMailingList stores a mailing list, bumping its revision
func (m *MockRepository) AddMailingList(ml *model.MailingList) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mlCopy := *ml
	m.mailingLists[ml.UID] = &mlCopy
	m.mailingListRevisions[ml.UID]++
}

// AddSubscription stores a subscription and its list lookup key
func (m *MockRepository) AddSubscription(sub *model.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subCopy := *sub
	if existing, ok := m.subscriptions[sub.UID]; ok {
		delete(m.subscriptionIndex, existing.ListLookupKey())
	}
	m.subscriptions[sub.UID] = &subCopy
	m.subscriptionIndex[subCopy.ListLookupKey()] = subCopy.UID
}

// RemoveSubscription deletes a subscription and its lookup key
func (m *MockRepository) RemoveSubscription(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.subscriptions[uid]; ok {
		delete(m.subscriptionIndex, existing.ListLookupKey())
		delete(m.subscriptions, uid)
	}
}

// ClearAll removes all data and error simulation
func (m *MockRepository) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mailingLists = make(map[string]*model.MailingList)
	m.mailingListRevisions = make(map[string]uint64)
	m.subscriptions = make(map[string]*model.Subscription)
	m.subscriptionIndex = make(map[string]string)
	m.clearErrorSimulationLocked()
}

// GetMailingListCount returns the number of stored mailing lists
func (m *MockRepository) GetMailingListCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mailingLists)
}

// GetMailingListRevision returns the stored revision of a mailing list
func (m *MockRepository) GetMailingListRevision(uid string) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mailingListRevisions[uid]
}

// SetGlobalError makes every operation fail with err
func (m *MockRepository) SetGlobalError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalError = err
}

// SetErrorForOperation makes the named operation fail with err
func (m *MockRepository) SetErrorForOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operationErrors[operation] = err
}

// SetErrorForMailingList makes operations on one mailing list fail with err
func (m *MockRepository) SetErrorForMailingList(uid string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mailingListErrors[uid] = err
}

// SetNotReady makes IsReady return err; nil restores readiness
func (m *MockRepository) SetNotReady(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notReady = err
}

// ClearErrorSimulation removes every configured error
func (m *MockRepository) ClearErrorSimulation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearErrorSimulationLocked()
}

func (m *MockRepository) clearErrorSimulationLocked() {
	m.globalError = nil
	m.notReady = nil
	m.operationErrors = make(map[string]error)
	m.mailingListErrors = make(map[string]error)
}
