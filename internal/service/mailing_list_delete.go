// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the mailing list admin use cases.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// Interface strings of the delete confirmation
const (
	msgDeleteQuestion  = "Are you sure you want to delete %name?"
	msgDeleteUndone    = "This action cannot be undone."
	msgDeleteConfirm   = "Delete"
	msgDeleteCancel    = "Cancel"
	msgManage          = "Manage subscriptions"
	msgDeleted         = "content @type: deleted @label."
	msgBlockedSingular = "There is 1 subscription to the %type mailing list. You can not remove this mailing list until you have removed that subscription."
	msgBlockedPlural   = "There are @count subscriptions to the %type mailing list. You can not remove this mailing list until you have removed all its subscriptions."
)

// MailingListDeleter drives the delete confirmation of a mailing list
type MailingListDeleter interface {
	// Prepare builds the confirmation screen; blocked while subscriptions exist
	Prepare(ctx context.Context, listUID string) (*model.ConfirmView, error)
	// Confirm deletes the mailing list; refused with a conflict while subscriptions exist
	Confirm(ctx context.Context, listUID string) (*model.DeleteResult, error)
}

// mailingListDeleteOrchestratorOption defines a function type for setting options
type mailingListDeleteOrchestratorOption func(*mailingListDeleteOrchestrator)

// WithMailingListReader sets the mailing list reader
func WithMailingListReader(reader port.MailingListReader) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.mailingListReader = reader
	}
}

// WithMailingListWriter sets the mailing list writer
func WithMailingListWriter(writer port.MailingListWriter) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.mailingListWriter = writer
	}
}

// WithSubscriptionCounter sets the subscription reader used to count subscriptions
func WithSubscriptionCounter(reader port.SubscriptionReader) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.subscriptionReader = reader
	}
}

// WithDeleteTranslator sets the translator
func WithDeleteTranslator(translator port.Translator) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.translator = translator
	}
}

// WithDeleteAccessChecker enables authorization of the viewer stored in the context
func WithDeleteAccessChecker(checker port.AccessChecker) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.accessChecker = checker
	}
}

// WithPublisher sets the message publisher
func WithPublisher(publisher port.MessagePublisher) mailingListDeleteOrchestratorOption {
	return func(o *mailingListDeleteOrchestrator) {
		o.publisher = publisher
	}
}

// mailingListDeleteOrchestrator orchestrates the delete confirmation
type mailingListDeleteOrchestrator struct {
	mailingListReader  port.MailingListReader
	mailingListWriter  port.MailingListWriter
	subscriptionReader port.SubscriptionReader
	translator         port.Translator
	accessChecker      port.AccessChecker
	publisher          port.MessagePublisher
}

// deleteState is recomputed on every request and never stored
type deleteState struct {
	mailingList *model.MailingList
	revision    uint64
	count       int
}

func (s deleteState) blocked() bool {
	return s.count > 0
}

func (o *mailingListDeleteOrchestrator) load(ctx context.Context, listUID string) (deleteState, error) {
	mailingList, revision, err := o.mailingListReader.GetMailingList(ctx, listUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get mailing list",
			"error", err,
			"mailing_list_uid", listUID,
		)
		return deleteState{}, err
	}

	if err := o.authorize(ctx, mailingList); err != nil {
		return deleteState{}, err
	}

	count, err := o.subscriptionReader.CountSubscriptionsByMailingList(ctx, listUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count subscriptions",
			"error", err,
			"mailing_list_uid", listUID,
		)
		return deleteState{}, err
	}

	slog.DebugContext(ctx, "mailing list delete state derived",
		"mailing_list_uid", listUID,
		"subscription_count", count,
		"revision", revision,
	)

	return deleteState{mailingList: mailingList, revision: revision, count: count}, nil
}

// authorize requires a signed-in viewer allowed to delete the list
func (o *mailingListDeleteOrchestrator) authorize(ctx context.Context, mailingList *model.MailingList) error {
	if o.accessChecker == nil {
		return nil
	}

	viewer := model.ViewerFromContext(ctx)
	if viewer.IsAnonymous() {
		return errors.NewUnauthorized("authentication required to delete a mailing list")
	}

	admin, err := o.accessChecker.HasPermission(ctx, viewer, constants.PermissionAdministerMailingLists)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}

	allowed, err := o.accessChecker.Access(ctx, mailingList.Ref(), constants.OperationDelete, viewer)
	if err != nil {
		return err
	}
	if !allowed {
		slog.WarnContext(ctx, "mailing list delete denied",
			"mailing_list_uid", mailingList.UID,
			"principal", viewer.Principal,
		)
		return errors.NewForbidden("not allowed to delete this mailing list")
	}
	return nil
}

func (o *mailingListDeleteOrchestrator) question(ctx context.Context, mailingList *model.MailingList) string {
	return o.translator.Translate(ctx, msgDeleteQuestion, map[string]string{"%name": mailingList.Label()})
}

func (o *mailingListDeleteOrchestrator) blockedDescription(ctx context.Context, state deleteState) string {
	return o.translator.FormatPlural(ctx, state.count, msgBlockedSingular, msgBlockedPlural,
		map[string]string{"%type": state.mailingList.Label()})
}

// Prepare builds the confirmation screen
func (o *mailingListDeleteOrchestrator) Prepare(ctx context.Context, listUID string) (*model.ConfirmView, error) {
	slog.DebugContext(ctx, "executing prepare mailing list delete use case",
		"mailing_list_uid", listUID,
	)

	state, err := o.load(ctx, listUID)
	if err != nil {
		return nil, err
	}

	question := o.question(ctx, state.mailingList)

	if state.blocked() {
		return &model.ConfirmView{
			State:       model.ConfirmStateBlocked,
			Title:       question,
			Question:    question,
			Description: o.blockedDescription(ctx, state),
			Manage: &model.Link{
				Title: o.translator.Translate(ctx, msgManage, nil),
				URL:   model.RouteURL(constants.RouteSubscriptionCollection),
			},
		}, nil
	}

	action := model.RouteURL(constants.RouteMailingListDeleteForm, "uid", state.mailingList.UID)
	return &model.ConfirmView{
		State:        model.ConfirmStateConfirmable,
		Title:        question,
		Question:     question,
		Description:  o.translator.Translate(ctx, msgDeleteUndone, nil),
		ConfirmLabel: o.translator.Translate(ctx, msgDeleteConfirm, nil),
		Action:       &action,
		Cancel: &model.Link{
			Title: o.translator.Translate(ctx, msgDeleteCancel, nil),
			URL:   model.RouteURL(constants.RouteMailingListCollection),
		},
	}, nil
}

// Confirm deletes the mailing list and returns the status message and redirect
func (o *mailingListDeleteOrchestrator) Confirm(ctx context.Context, listUID string) (*model.DeleteResult, error) {
	slog.DebugContext(ctx, "executing confirm mailing list delete use case",
		"mailing_list_uid", listUID,
	)

	state, err := o.load(ctx, listUID)
	if err != nil {
		return nil, err
	}

	if state.blocked() {
		slog.WarnContext(ctx, "refusing to delete mailing list with subscriptions",
			"mailing_list_uid", listUID,
			"subscription_count", state.count,
		)
		return nil, errors.NewConflict(o.blockedDescription(ctx, state))
	}

	if err := o.mailingListWriter.DeleteMailingList(ctx, listUID, state.revision); err != nil {
		slog.ErrorContext(ctx, "failed to delete mailing list",
			"error", err,
			"mailing_list_uid", listUID,
		)
		return nil, err
	}

	slog.InfoContext(ctx, "mailing list deleted",
		"mailing_list_uid", listUID,
		"bundle", state.mailingList.BundleName(),
	)

	if o.publisher != nil {
		if err := o.publishMailingListDeletion(ctx, state.mailingList); err != nil {
			slog.ErrorContext(ctx, "failed to publish delete messages",
				"error", err,
				"mailing_list_uid", listUID,
			)
		}
	}

	return &model.DeleteResult{
		Message: o.translator.Translate(ctx, msgDeleted, map[string]string{
			"@type":  state.mailingList.BundleName(),
			"@label": state.mailingList.Label(),
		}),
		Redirect: model.RouteURL(constants.RouteMailingListCollection),
	}, nil
}

// publishMailingListDeletion publishes indexer, access control and event messages for a deletion
func (o *mailingListDeleteOrchestrator) publishMailingListDeletion(ctx context.Context, mailingList *model.MailingList) error {
	deleteMessage := &model.IndexerMessage{
		Action: model.ActionDeleted,
		Tags:   []string{},
	}

	indexerMessage := deleteMessage.Build(ctx, mailingList.UID)
	if err := o.publisher.Indexer(ctx, constants.IndexMailingListSubject, indexerMessage); err != nil {
		return fmt.Errorf("failed to publish deleted indexer message: %w", err)
	}

	if err := o.publisher.Access(ctx, constants.DeleteAllAccessMailingListSubject, mailingList.UID); err != nil {
		return fmt.Errorf("failed to publish delete access control message: %w", err)
	}

	event := model.MailingListDeletedEvent{
		MailingList: mailingList,
		DeletedAt:   time.Now().UTC(),
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok {
		event.DeletedBy = principal
	}
	if err := o.publisher.Event(ctx, constants.MailingListDeletedSubject, event); err != nil {
		return fmt.Errorf("failed to publish mailing list deleted event: %w", err)
	}

	slog.DebugContext(ctx, "delete messages published successfully",
		"mailing_list_uid", mailingList.UID)
	return nil
}

// NewMailingListDeleteOrchestrator creates a new delete confirmation use case using the option pattern
func NewMailingListDeleteOrchestrator(opts ...mailingListDeleteOrchestratorOption) MailingListDeleter {
	o := &mailingListDeleteOrchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	if o.mailingListReader == nil {
		panic("mailingListReader is required")
	}
	if o.mailingListWriter == nil {
		panic("mailingListWriter is required")
	}
	if o.subscriptionReader == nil {
		panic("subscriptionReader is required")
	}
	if o.translator == nil {
		panic("translator is required")
	}
	return o
}
