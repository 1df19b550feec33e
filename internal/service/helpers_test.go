// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/i18n"
)

const (
	newsletterUID = "11111111-1111-1111-1111-111111111111"
	digestUID     = "22222222-2222-2222-2222-222222222222"
	singleUID     = "33333333-3333-3333-3333-333333333333"
)

var testChanged = time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

type testDeps struct {
	repo      *mock.MockRepository
	access    *mock.MockAccessChecker
	users     *mock.MockUserReader
	publisher *mock.MockMessagePublisher
	catalog   *i18n.Catalog
	dates     *i18n.DateFormatter
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	catalog, err := i18n.NewDefaultCatalog()
	require.NoError(t, err)
	dates, err := i18n.NewDateFormatter("UTC")
	require.NoError(t, err)

	repo := mock.NewMockRepository()
	repo.ClearAll()
	t.Cleanup(repo.ClearAll)

	return &testDeps{
		repo:      repo,
		access:    mock.NewMockAccessChecker(),
		users:     mock.NewMockUserReader(),
		publisher: mock.NewMockMessagePublisher(),
		catalog:   catalog,
		dates:     dates,
	}
}

// seedLists stores "Newsletter" with two subscriptions, "Digest" with none and
// "Single" with one.
func (d *testDeps) seedLists() {
	d.repo.AddMailingList(&model.MailingList{UID: newsletterUID, Title: "Newsletter"})
	d.repo.AddMailingList(&model.MailingList{UID: digestUID, Title: "Digest"})
	d.repo.AddMailingList(&model.MailingList{UID: singleUID, Title: "Single"})

	d.repo.AddSubscription(&model.Subscription{
		UID:            "sub-1",
		MailingListUID: newsletterUID,
		Title:          "Jane Doe",
		Email:          "jane@example.org",
		Active:         true,
		OwnerUID:       "jdoe",
		Langcode:       "fr",
		ChangedAt:      testChanged,
	})
	d.repo.AddSubscription(&model.Subscription{
		UID:            "sub-2",
		MailingListUID: newsletterUID,
		Title:          "John Roe",
		Email:          "john@example.org",
		Active:         false,
		OwnerUID:       "jroe",
		Langcode:       "und",
		ChangedAt:      testChanged,
	})
	d.repo.AddSubscription(&model.Subscription{
		UID:            "sub-3",
		MailingListUID: singleUID,
		Title:          "Solo",
		Email:          "solo@example.org",
		Active:         true,
		Langcode:       "xx",
		ChangedAt:      testChanged,
	})
}

func (d *testDeps) addSubscriptions(listUID string, n int) {
	for i := 0; i < n; i++ {
		d.repo.AddSubscription(&model.Subscription{
			UID:            fmt.Sprintf("%s-sub-%03d", listUID, i),
			MailingListUID: listUID,
			Title:          fmt.Sprintf("Subscriber %d", i),
		})
	}
}

func withLanguage(ctx context.Context, langcode string) context.Context {
	return i18n.WithLanguage(ctx, langcode)
}
