// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

const (
	msgNoMailingLists = "There are no mailing lists yet."
	msgDescription    = "Description"
)

// MailingListLister renders the mailing list collection
type MailingListLister interface {
	Render(ctx context.Context, viewer *model.Viewer) (*model.MailingListListing, error)
}

// mailingListListingOrchestratorOption defines a function type for setting options
type mailingListListingOrchestratorOption func(*mailingListListingOrchestrator)

// WithCollectionReader sets the mailing list reader
func WithCollectionReader(reader port.MailingListReader) mailingListListingOrchestratorOption {
	return func(o *mailingListListingOrchestrator) {
		o.mailingListReader = reader
	}
}

// WithCollectionAccessChecker sets the access checker
func WithCollectionAccessChecker(checker port.AccessChecker) mailingListListingOrchestratorOption {
	return func(o *mailingListListingOrchestrator) {
		o.accessChecker = checker
	}
}

// WithCollectionTranslator sets the translator
func WithCollectionTranslator(translator port.Translator) mailingListListingOrchestratorOption {
	return func(o *mailingListListingOrchestrator) {
		o.translator = translator
	}
}

type mailingListListingOrchestrator struct {
	mailingListReader port.MailingListReader
	accessChecker     port.AccessChecker
	translator        port.Translator
}

// Render lists every mailing list with the operations the viewer may use
func (o *mailingListListingOrchestrator) Render(ctx context.Context, viewer *model.Viewer) (*model.MailingListListing, error) {
	slog.DebugContext(ctx, "executing render mailing list collection use case")

	mailingLists, err := o.mailingListReader.ListMailingLists(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list mailing lists", "error", err)
		return nil, err
	}

	admin, err := o.accessChecker.HasPermission(ctx, viewer, constants.PermissionAdministerMailingLists)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, len(mailingLists))
	for _, ml := range mailingLists {
		var operations []model.Link
		for _, op := range []struct {
			operation, label, route string
		}{
			{constants.OperationUpdate, msgEdit, constants.RouteMailingListEditForm},
			{constants.OperationDelete, msgDeleteConfirm, constants.RouteMailingListDeleteForm},
		} {
			allowed := admin
			if !allowed {
				allowed, err = o.accessChecker.Access(ctx, ml.Ref(), op.operation, viewer)
				if err != nil {
					return nil, err
				}
			}
			if allowed {
				operations = append(operations, model.Link{
					Title: o.translator.Translate(ctx, op.label, nil),
					URL:   model.RouteURL(op.route, "uid", ml.UID),
				})
			}
		}

		rows = append(rows, model.Row{
			Key: ml.UID,
			Cells: map[model.Field]model.Cell{
				model.FieldTitle:       {Text: ml.Label()},
				model.FieldDescription: {Text: ml.Description},
				model.FieldOperations:  {Operations: operations},
			},
		})
	}

	return &model.MailingListListing{
		Table: &model.Table{
			Header: []model.Column{
				{Key: model.FieldTitle, Label: o.translator.Translate(ctx, fieldLabels[model.FieldTitle], nil)},
				{Key: model.FieldDescription, Label: o.translator.Translate(ctx, msgDescription, nil), Priority: model.PriorityLow},
				{Key: model.FieldOperations, Label: o.translator.Translate(ctx, msgOperationsColumn, nil)},
			},
			Rows:  rows,
			Empty: o.translator.Translate(ctx, msgNoMailingLists, nil),
		},
		Attached: []model.MetaTag{NoIndexMeta},
	}, nil
}

// NewMailingListListingOrchestrator creates a new mailing list collection use case using the option pattern
func NewMailingListListingOrchestrator(opts ...mailingListListingOrchestratorOption) MailingListLister {
	o := &mailingListListingOrchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	if o.mailingListReader == nil {
		panic("mailingListReader is required")
	}
	if o.accessChecker == nil {
		panic("accessChecker is required")
	}
	if o.translator == nil {
		panic("translator is required")
	}
	return o
}
