// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/log"
)

// Interface strings of the subscription listing
const (
	msgEmpty            = "No subscriptions found."
	msgActive           = "Active"
	msgInactive         = "Inactive"
	msgAnonymous        = "Anonymous"
	msgEdit             = "Edit"
	msgAccessTitle      = "Subscription access"
	msgAccessDesc       = "Enter the email address you subscribed with and we will send you a link to manage your subscriptions."
	msgAccessEmail      = "Email"
	msgAccessSubmit     = "Send access link"
	msgOperationsColumn = "Operations"
)

var fieldLabels = map[model.Field]string{
	model.FieldTitle:   "Title",
	model.FieldList:    "Mailing list",
	model.FieldEmail:   "Email",
	model.FieldAuthor:  "Author",
	model.FieldStatus:  "Status",
	model.FieldChanged: "Updated",
}

var fieldPriorities = map[model.Field]model.Priority{
	model.FieldTitle:   model.PriorityMedium,
	model.FieldAuthor:  model.PriorityLow,
	model.FieldChanged: model.PriorityLow,
}

// NoIndexMeta keeps search engines away from subscription pages
var NoIndexMeta = model.MetaTag{Name: "robots", Content: "noindex,nofollow"}

// SubscriptionTable renders the permission-aware subscription listing
type SubscriptionTable interface {
	// BuildHeader returns the columns visible to the viewer, operations last
	BuildHeader(ctx context.Context, viewer *model.Viewer) ([]model.Column, error)
	// BuildRow returns nil when the viewer may not view the subscription
	BuildRow(ctx context.Context, subscription *model.Subscription, viewer *model.Viewer) (*model.Row, error)
	// Render loads one page of subscriptions; page is zero-based
	Render(ctx context.Context, viewer *model.Viewer, page int) (*model.SubscriptionListing, error)
	// View renders the canonical page of a single subscription
	View(ctx context.Context, uid string, viewer *model.Viewer) (*model.SubscriptionDetail, error)
}

// subscriptionTableOrchestratorOption defines a function type for setting options
type subscriptionTableOrchestratorOption func(*subscriptionTableOrchestrator)

// WithSubscriptionReader sets the subscription reader
func WithSubscriptionReader(reader port.SubscriptionReader) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.subscriptionReader = reader
	}
}

// WithListLabelReader sets the mailing list reader used for the parent list label
func WithListLabelReader(reader port.MailingListReader) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.mailingListReader = reader
	}
}

// WithAccessChecker sets the access checker
func WithAccessChecker(checker port.AccessChecker) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.accessChecker = checker
	}
}

// WithUserReader sets the user reader used for the author column
func WithUserReader(reader port.UserReader) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.userReader = reader
	}
}

// WithTranslator sets the translator
func WithTranslator(translator port.Translator) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.translator = translator
	}
}

// WithLanguageManager sets the language manager
func WithLanguageManager(languages port.LanguageManager) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.languages = languages
	}
}

// WithDateFormatter sets the date formatter
func WithDateFormatter(formatter port.DateFormatter) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.dateFormatter = formatter
	}
}

// WithPageSize overrides the number of subscriptions per page
func WithPageSize(size int) subscriptionTableOrchestratorOption {
	return func(o *subscriptionTableOrchestrator) {
		o.pageSize = size
	}
}

// subscriptionTableOrchestrator orchestrates the subscription listing
type subscriptionTableOrchestrator struct {
	subscriptionReader port.SubscriptionReader
	mailingListReader  port.MailingListReader
	accessChecker      port.AccessChecker
	userReader         port.UserReader
	translator         port.Translator
	languages          port.LanguageManager
	dateFormatter      port.DateFormatter
	pageSize           int
}

// rowContext carries what is computed once per render
type rowContext struct {
	viewer     *model.Viewer
	privileged bool
	listLabels map[string]string
}

func (o *subscriptionTableOrchestrator) privileged(ctx context.Context, viewer *model.Viewer) (bool, error) {
	privileged, err := o.accessChecker.HasPermission(ctx, viewer, constants.PermissionAdministerSubscriptions)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check subscription administration permission", "error", err)
		return false, err
	}
	return privileged, nil
}

func (o *subscriptionTableOrchestrator) header(ctx context.Context, privileged bool) []model.Column {
	fields := model.VisibleFieldsFor(privileged)
	header := make([]model.Column, 0, len(fields)+1)
	for _, f := range fields {
		header = append(header, model.Column{
			Key:      f,
			Label:    o.translator.Translate(ctx, fieldLabels[f], nil),
			Priority: fieldPriorities[f],
		})
	}
	return append(header, model.Column{
		Key:   model.FieldOperations,
		Label: o.translator.Translate(ctx, msgOperationsColumn, nil),
	})
}

// BuildHeader returns the columns visible to the viewer
func (o *subscriptionTableOrchestrator) BuildHeader(ctx context.Context, viewer *model.Viewer) ([]model.Column, error) {
	privileged, err := o.privileged(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return o.header(ctx, privileged), nil
}

// BuildRow returns the row of a subscription, nil without view access
func (o *subscriptionTableOrchestrator) BuildRow(ctx context.Context, subscription *model.Subscription, viewer *model.Viewer) (*model.Row, error) {
	privileged, err := o.privileged(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return o.buildRow(ctx, subscription, &rowContext{
		viewer:     viewer,
		privileged: privileged,
		listLabels: make(map[string]string),
	})
}

func (o *subscriptionTableOrchestrator) buildRow(ctx context.Context, subscription *model.Subscription, rc *rowContext) (*model.Row, error) {
	allowed, err := o.accessChecker.Access(ctx, subscription.Ref(), constants.OperationView, rc.viewer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check subscription view access",
			"error", err,
			"subscription_uid", subscription.UID,
		)
		return nil, err
	}
	if !allowed {
		slog.DebugContext(ctx, "subscription hidden from viewer",
			"subscription_uid", subscription.UID,
			log.Email("email", subscription.Email),
		)
		return nil, nil
	}

	cells, err := o.fieldCells(ctx, subscription, rc)
	if err != nil {
		return nil, err
	}

	operations, err := o.operations(ctx, subscription, rc)
	if err != nil {
		return nil, err
	}
	cells[model.FieldOperations] = model.Cell{Operations: operations}

	return &model.Row{Key: subscription.UID, Cells: cells}, nil
}

func (o *subscriptionTableOrchestrator) fieldCells(ctx context.Context, subscription *model.Subscription, rc *rowContext) (map[model.Field]model.Cell, error) {
	listLabel, err := o.listLabel(ctx, subscription.MailingListUID, rc)
	if err != nil {
		return nil, err
	}

	cells := map[model.Field]model.Cell{
		model.FieldTitle: {Link: &model.Link{
			Title: subscription.Label(),
			URL:   o.canonicalURL(subscription),
		}},
		model.FieldList:  {Text: listLabel},
		model.FieldEmail: {Text: subscription.Email},
	}

	for _, f := range model.VisibleFieldsFor(rc.privileged) {
		if !model.IsPrivilegedField(f) {
			continue
		}
		cell, err := o.privilegedCell(ctx, f, subscription)
		if err != nil {
			return nil, err
		}
		cells[f] = cell
	}

	return cells, nil
}

// privilegedCell builds the cell of a column shown only to subscription administrators
func (o *subscriptionTableOrchestrator) privilegedCell(ctx context.Context, f model.Field, subscription *model.Subscription) (model.Cell, error) {
	switch f {
	case model.FieldAuthor:
		author, err := o.author(ctx, subscription)
		if err != nil {
			return model.Cell{}, err
		}
		return model.Cell{Text: author}, nil
	case model.FieldStatus:
		status := msgInactive
		if subscription.Active {
			status = msgActive
		}
		return model.Cell{Text: o.translator.Translate(ctx, status, nil)}, nil
	case model.FieldChanged:
		return model.Cell{Text: o.dateFormatter.Format(subscription.ChangedAt, constants.DateFormatShort)}, nil
	}
	return model.Cell{}, errors.NewUnexpected(fmt.Sprintf("no cell builder for field %q", f))
}

// canonicalURL links to the subscription, in its own language when that language is configured
func (o *subscriptionTableOrchestrator) canonicalURL(subscription *model.Subscription) model.URL {
	u := model.RouteURL(constants.RouteSubscriptionCanonical, "uid", subscription.UID)
	langcode := subscription.Language()
	if langcode == constants.LangcodeNotSpecified {
		return u
	}
	if _, ok := o.languages.Language(langcode); ok {
		u.Options.Language = langcode
	}
	return u
}

func (o *subscriptionTableOrchestrator) listLabel(ctx context.Context, listUID string, rc *rowContext) (string, error) {
	if label, ok := rc.listLabels[listUID]; ok {
		return label, nil
	}
	mailingList, _, err := o.mailingListReader.GetMailingList(ctx, listUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get parent mailing list",
			"error", err,
			"mailing_list_uid", listUID,
		)
		return "", err
	}
	rc.listLabels[listUID] = mailingList.Label()
	return mailingList.Label(), nil
}

func (o *subscriptionTableOrchestrator) author(ctx context.Context, subscription *model.Subscription) (string, error) {
	if subscription.OwnerUID == "" {
		return o.translator.Translate(ctx, msgAnonymous, nil), nil
	}
	username, err := o.userReader.Username(ctx, subscription.OwnerUID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve subscription owner",
			"error", err,
			"subscription_uid", subscription.UID,
		)
		return "", err
	}
	return username, nil
}

// operations lists the edit and delete links the viewer may use
func (o *subscriptionTableOrchestrator) operations(ctx context.Context, subscription *model.Subscription, rc *rowContext) ([]model.Link, error) {
	candidates := []struct {
		operation string
		label     string
		route     string
	}{
		{constants.OperationUpdate, msgEdit, constants.RouteSubscriptionEditForm},
		{constants.OperationDelete, msgDeleteConfirm, constants.RouteSubscriptionDeleteForm},
	}

	var links []model.Link
	for _, c := range candidates {
		allowed := rc.privileged
		if !allowed {
			var err error
			allowed, err = o.accessChecker.Access(ctx, subscription.Ref(), c.operation, rc.viewer)
			if err != nil {
				return nil, err
			}
		}
		if allowed {
			links = append(links, model.Link{
				Title: o.translator.Translate(ctx, c.label, nil),
				URL:   model.RouteURL(c.route, "uid", subscription.UID),
			})
		}
	}
	return links, nil
}

func (o *subscriptionTableOrchestrator) anonymousForm(ctx context.Context) *model.AnonymousAccessForm {
	return &model.AnonymousAccessForm{
		Title:       o.translator.Translate(ctx, msgAccessTitle, nil),
		Description: o.translator.Translate(ctx, msgAccessDesc, nil),
		EmailLabel:  o.translator.Translate(ctx, msgAccessEmail, nil),
		SubmitLabel: o.translator.Translate(ctx, msgAccessSubmit, nil),
		Action:      model.RouteURL(constants.RouteAnonymousAccess),
	}
}

// Render loads one page of subscriptions and builds the listing
func (o *subscriptionTableOrchestrator) Render(ctx context.Context, viewer *model.Viewer, page int) (*model.SubscriptionListing, error) {
	if page < 0 {
		page = 0
	}
	if maxPage := math.MaxInt / o.pageSize; page > maxPage {
		page = maxPage
	}

	slog.DebugContext(ctx, "executing render subscription table use case",
		"page", page,
		"anonymous", viewer.IsAnonymous(),
	)

	privileged, err := o.privileged(ctx, viewer)
	if err != nil {
		return nil, err
	}

	subscriptions, total, err := o.subscriptionReader.ListSubscriptions(ctx, page*o.pageSize, o.pageSize)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list subscriptions", "error", err, "page", page)
		return nil, err
	}

	rc := &rowContext{
		viewer:     viewer,
		privileged: privileged,
		listLabels: make(map[string]string),
	}

	rows := make([]model.Row, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		row, err := o.buildRow(ctx, subscription, rc)
		if err != nil {
			return nil, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}

	if len(rows) == 0 && viewer.IsAnonymous() {
		slog.DebugContext(ctx, "no visible subscriptions for anonymous viewer, returning access form")
		return &model.SubscriptionListing{AnonymousForm: o.anonymousForm(ctx)}, nil
	}

	slog.DebugContext(ctx, "subscription table rendered",
		"page", page,
		"rows", len(rows),
		"total", total,
		"privileged", privileged,
	)

	return &model.SubscriptionListing{
		Table: &model.Table{
			Header: o.header(ctx, privileged),
			Rows:   rows,
			Empty:  o.translator.Translate(ctx, msgEmpty, nil),
			Pager:  &model.Pager{Page: page, PerPage: o.pageSize, Total: total},
		},
		Attached: []model.MetaTag{NoIndexMeta},
	}, nil
}

// View renders a single subscription with the fields visible to the viewer
func (o *subscriptionTableOrchestrator) View(ctx context.Context, uid string, viewer *model.Viewer) (*model.SubscriptionDetail, error) {
	subscription, err := o.subscriptionReader.GetSubscription(ctx, uid)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get subscription", "error", err, "subscription_uid", uid)
		return nil, err
	}

	privileged, err := o.privileged(ctx, viewer)
	if err != nil {
		return nil, err
	}

	allowed, err := o.accessChecker.Access(ctx, subscription.Ref(), constants.OperationView, viewer)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if viewer.IsAnonymous() {
			return nil, errors.NewUnauthorized("authentication required to view this subscription")
		}
		return nil, errors.NewForbidden("not allowed to view this subscription")
	}

	rc := &rowContext{viewer: viewer, privileged: privileged, listLabels: make(map[string]string)}
	cells, err := o.fieldCells(ctx, subscription, rc)
	if err != nil {
		return nil, err
	}

	return &model.SubscriptionDetail{
		Title:    subscription.Label(),
		Fields:   o.header(ctx, privileged)[:len(model.VisibleFieldsFor(privileged))],
		Values:   cells,
		Attached: []model.MetaTag{NoIndexMeta},
	}, nil
}

// NewSubscriptionTableOrchestrator creates a new subscription listing use case using the option pattern
func NewSubscriptionTableOrchestrator(opts ...subscriptionTableOrchestratorOption) SubscriptionTable {
	o := &subscriptionTableOrchestrator{pageSize: constants.SubscriptionsPerPage}
	for _, opt := range opts {
		opt(o)
	}
	if o.subscriptionReader == nil {
		panic("subscriptionReader is required")
	}
	if o.mailingListReader == nil {
		panic("mailingListReader is required")
	}
	if o.accessChecker == nil {
		panic("accessChecker is required")
	}
	if o.userReader == nil {
		panic("userReader is required")
	}
	if o.translator == nil {
		panic("translator is required")
	}
	if o.languages == nil {
		panic("languages is required")
	}
	if o.dateFormatter == nil {
		panic("dateFormatter is required")
	}
	if o.pageSize <= 0 {
		o.pageSize = constants.SubscriptionsPerPage
	}
	return o
}
