// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	pkgerrors "github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

func TestErrorSimulation(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()

	t.Run("Mailing list error simulation", func(t *testing.T) {
		repo.ClearAll()
		repo.AddMailingList(&model.MailingList{UID: "ml-1", Title: "Newsletter"})

		expectedErr := pkgerrors.NewConflict("simulated mailing list conflict")
		repo.SetErrorForMailingList("ml-1", expectedErr)

		_, _, err := repo.GetMailingList(ctx, "ml-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, expectedErr))

		_, err = repo.CountSubscriptionsByMailingList(ctx, "ml-1")
		assert.True(t, errors.Is(err, expectedErr))
	})

	t.Run("Operation error simulation", func(t *testing.T) {
		repo.ClearAll()

		expectedErr := pkgerrors.NewServiceUnavailable("simulated service unavailable")
		repo.SetErrorForOperation("ListSubscriptions", expectedErr)

		_, _, err := repo.ListSubscriptions(ctx, 0, 50)
		require.Error(t, err)
		assert.True(t, errors.Is(err, expectedErr))
	})

	t.Run("Global error simulation", func(t *testing.T) {
		repo.ClearAll()

		expectedErr := pkgerrors.NewUnexpected("simulated global error")
		repo.SetGlobalError(expectedErr)

		_, _, err := repo.GetMailingList(ctx, "any-mailinglist")
		assert.True(t, errors.Is(err, expectedErr))

		_, err = repo.GetSubscription(ctx, "any-subscription")
		assert.True(t, errors.Is(err, expectedErr))
	})

	t.Run("Clear error simulation", func(t *testing.T) {
		repo.ClearAll()
		repo.SetErrorForMailingList("ml-1", pkgerrors.NewNotFound("test error"))
		repo.SetGlobalError(pkgerrors.NewUnexpected("global error"))
		repo.SetNotReady(pkgerrors.NewServiceUnavailable("down"))

		repo.ClearErrorSimulation()

		_, _, err := repo.GetMailingList(ctx, "non-existent-list")
		require.Error(t, err)

		var notFoundErr pkgerrors.NotFound
		assert.True(t, errors.As(err, &notFoundErr))
		assert.Contains(t, err.Error(), "mailing list with UID non-existent-list not found")
		assert.NoError(t, repo.IsReady(ctx))
	})

	t.Run("Error priority - global takes precedence", func(t *testing.T) {
		repo.ClearAll()
		specificErr := pkgerrors.NewNotFound("specific error")
		globalErr := pkgerrors.NewUnexpected("global error")

		repo.SetErrorForMailingList("ml-1", specificErr)
		repo.SetGlobalError(globalErr)

		_, _, err := repo.GetMailingList(ctx, "ml-1")
		assert.True(t, errors.Is(err, globalErr))
		assert.False(t, errors.Is(err, specificErr))
	})

	t.Run("Error priority - operation over resource", func(t *testing.T) {
		repo.ClearAll()
		resourceErr := pkgerrors.NewNotFound("resource error")
		operationErr := pkgerrors.NewConflict("operation error")

		repo.SetErrorForMailingList("ml-1", resourceErr)
		repo.SetErrorForOperation("GetMailingList", operationErr)

		_, _, err := repo.GetMailingList(ctx, "ml-1")
		assert.True(t, errors.Is(err, operationErr))
		assert.False(t, errors.Is(err, resourceErr))
	})

	repo.ClearAll()
}
