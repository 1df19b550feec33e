// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the HTTP screens of the mailing list admin.
package service

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strconv"

	"goa.design/clue/health"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/service"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/flash"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/i18n"
)

const (
	msgMailingListsTitle  = "Mailing lists"
	msgSubscriptionsTitle = "Subscriptions"
)

// MailingListAdmin serves the mailing list and subscription admin screens
type MailingListAdmin struct {
	deleter    service.MailingListDeleter
	table      service.SubscriptionTable
	lister     service.MailingListLister
	storage    port.ReaderWriter
	translator port.Translator
	renderer   *Renderer
	flash      *flash.Store
	vars       func(*http.Request) map[string]string
}

// NewMailingListAdmin returns the admin screens implementation.
func NewMailingListAdmin(
	deleter service.MailingListDeleter,
	table service.SubscriptionTable,
	lister service.MailingListLister,
	storage port.ReaderWriter,
	translator port.Translator,
	renderer *Renderer,
	flashStore *flash.Store,
) *MailingListAdmin {
	return &MailingListAdmin{
		deleter:    deleter,
		table:      table,
		lister:     lister,
		storage:    storage,
		translator: translator,
		renderer:   renderer,
		flash:      flashStore,
	}
}

// Mount registers the screens and probes on mux
func (s *MailingListAdmin) Mount(mux goahttp.Muxer) {
	s.vars = mux.Vars

	mux.Handle(http.MethodGet, "/livez", s.Livez)
	mux.Handle(http.MethodGet, "/readyz", health.Handler(health.NewChecker(storagePinger{s.storage})).ServeHTTP)

	mux.Handle(http.MethodGet, "/mailing-lists", s.MailingListCollection)
	mux.Handle(http.MethodGet, "/mailing-lists/{uid}/delete", s.DeleteForm)
	mux.Handle(http.MethodPost, "/mailing-lists/{uid}/delete", s.DeleteConfirm)
	mux.Handle(http.MethodGet, "/subscriptions", s.SubscriptionCollection)
	mux.Handle(http.MethodGet, "/subscriptions/{uid}", s.SubscriptionView)
}

// storagePinger reports storage readiness to the health checker
type storagePinger struct {
	storage port.ReaderWriter
}

func (p storagePinger) Name() string { return "storage" }

func (p storagePinger) Ping(ctx context.Context) error {
	return p.storage.IsReady(ctx)
}

// Livez implements the livez endpoint for liveness probes.
func (s *MailingListAdmin) Livez(w http.ResponseWriter, r *http.Request) {
	slog.DebugContext(r.Context(), "liveness check completed successfully")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// MailingListCollection lists the mailing lists
func (s *MailingListAdmin) MailingListCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slog.DebugContext(ctx, "mailingListAdmin.mailing-list-collection")

	listing, err := s.lister.Render(ctx, model.ViewerFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.renderer.Table(listing.Table, constants.RouteMailingListCollection, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, s.translator.Translate(ctx, msgMailingListsTitle, nil), listing.Attached, body)
}

// DeleteForm shows the delete confirmation of a mailing list
func (s *MailingListAdmin) DeleteForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := s.vars(r)["uid"]
	slog.DebugContext(ctx, "mailingListAdmin.delete-form", "mailing_list_uid", uid)

	view, err := s.deleter.Prepare(ctx, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.renderer.Confirm(view)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, view.Title, nil, body)
}

// DeleteConfirm deletes a mailing list and redirects with a status message
func (s *MailingListAdmin) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := s.vars(r)["uid"]
	slog.DebugContext(ctx, "mailingListAdmin.delete-confirm", "mailing_list_uid", uid)

	result, err := s.deleter.Confirm(ctx, uid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	location, err := s.renderer.Path(result.Redirect)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.flash.Add(w, r, flash.Message{Type: flash.TypeStatus, Text: result.Message}); err != nil {
		slog.WarnContext(ctx, "failed to store status message", "error", err)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// SubscriptionCollection lists the subscriptions visible to the viewer
func (s *MailingListAdmin) SubscriptionCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	slog.DebugContext(ctx, "mailingListAdmin.subscription-collection", "page", page)

	listing, err := s.table.Render(ctx, model.ViewerFromContext(ctx), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if listing.AnonymousForm != nil {
		body, err := s.renderer.AccessForm(listing.AnonymousForm)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writePage(w, r, listing.AnonymousForm.Title, listing.Attached, body)
		return
	}

	body, err := s.renderer.Table(listing.Table, constants.RouteSubscriptionCollection, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, s.translator.Translate(ctx, msgSubscriptionsTitle, nil), listing.Attached, body)
}

// SubscriptionView shows a single subscription
func (s *MailingListAdmin) SubscriptionView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := s.vars(r)["uid"]
	slog.DebugContext(ctx, "mailingListAdmin.subscription-view", "subscription_uid", uid)

	detail, err := s.table.View(ctx, uid, model.ViewerFromContext(ctx))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.renderer.Detail(detail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, r, detail.Title, detail.Attached, body)
}

func (s *MailingListAdmin) writePage(w http.ResponseWriter, r *http.Request, title string, meta []model.MetaTag, body string) {
	ctx := r.Context()
	messages := s.flash.Pop(w, r)

	page, err := s.renderer.Page(language(ctx), title, meta, messages, body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

func (s *MailingListAdmin) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := statusCode(err)
	logError(ctx, status, err)

	title := s.translator.Translate(ctx, http.StatusText(status), nil)
	body := "<p>" + html.EscapeString(publicMessage(status, err)) + "</p>"

	page, errRender := s.renderer.Page(language(ctx), title, []model.MetaTag{service.NoIndexMeta}, nil, body)
	if errRender != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func language(ctx context.Context) string {
	if lang, ok := i18n.LanguageFromContext(ctx); ok {
		return lang
	}
	return "en"
}
