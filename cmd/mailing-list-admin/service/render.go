// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/osteele/liquid"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/flash"
)

//go:embed templates/*.liquid
var templateFS embed.FS

const (
	tplLayout     = "layout"
	tplTable      = "table"
	tplConfirm    = "confirm"
	tplAccessForm = "access_form"
	tplDetail     = "detail"
)

// Renderer turns view trees into HTML with Liquid templates
type Renderer struct {
	templates map[string]*liquid.Template
	routes    *Router
}

// NewRenderer parses the embedded templates
func NewRenderer(routes *Router) (*Renderer, error) {
	engine := liquid.NewEngine()

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*liquid.Template, len(entries)), routes: routes}
	for _, entry := range entries {
		source, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, err
		}
		tpl, errParse := engine.ParseString(string(source))
		if errParse != nil {
			return nil, fmt.Errorf("parse template %s: %w", entry.Name(), errParse)
		}
		r.templates[strings.TrimSuffix(entry.Name(), ".liquid")] = tpl
	}
	return r, nil
}

// Path resolves a route URL with the renderer's router
func (r *Renderer) Path(u model.URL) (string, error) {
	return r.routes.Path(u)
}

func (r *Renderer) render(name string, bindings map[string]any) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %s", name)
	}
	out, err := tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return out, nil
}

// Page wraps rendered content in the document layout
func (r *Renderer) Page(lang, title string, meta []model.MetaTag, messages []flash.Message, content string) (string, error) {
	tags := make([]map[string]any, 0, len(meta))
	for _, m := range meta {
		tags = append(tags, map[string]any{"name": m.Name, "content": m.Content})
	}
	msgs := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, map[string]any{"type": m.Type, "text": m.Text})
	}
	return r.render(tplLayout, map[string]any{
		"lang":     lang,
		"title":    title,
		"meta":     tags,
		"messages": msgs,
		"content":  content,
	})
}

// Table renders a listing; pagerRoute names the route used for pager links
func (r *Renderer) Table(table *model.Table, pagerRoute string, links []model.Link) (string, error) {
	header := make([]map[string]any, 0, len(table.Header))
	for _, c := range table.Header {
		header = append(header, map[string]any{"label": c.Label, "class": string(c.Priority)})
	}

	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]map[string]any, 0, len(table.Header))
		for _, c := range table.Header {
			cell, err := r.cellBindings(row.Cells[c.Key])
			if err != nil {
				return "", err
			}
			cell["class"] = string(c.Priority)
			cells = append(cells, cell)
		}
		rows = append(rows, map[string]any{"key": row.Key, "cells": cells})
	}

	actionLinks, err := r.linkBindings(links)
	if err != nil {
		return "", err
	}

	bindings := map[string]any{
		"header": header,
		"rows":   rows,
		"empty":  table.Empty,
		"links":  actionLinks,
	}
	if table.Pager != nil && table.Pager.Pages() > 1 {
		pager, err := r.pagerBindings(*table.Pager, pagerRoute)
		if err != nil {
			return "", err
		}
		bindings["pager"] = pager
	}
	return r.render(tplTable, bindings)
}

// Confirm renders a delete confirmation
func (r *Renderer) Confirm(view *model.ConfirmView) (string, error) {
	bindings := map[string]any{
		"description":   view.Description,
		"confirm_label": view.ConfirmLabel,
		"action":        "",
	}
	if view.Action != nil {
		action, err := r.Path(*view.Action)
		if err != nil {
			return "", err
		}
		bindings["action"] = action
	}
	for key, link := range map[string]*model.Link{"cancel": view.Cancel, "manage": view.Manage} {
		if link == nil {
			continue
		}
		b, err := r.linkBinding(*link)
		if errors.Is(err, ErrRouteUnavailable) {
			continue
		}
		if err != nil {
			return "", err
		}
		bindings[key] = b
	}
	return r.render(tplConfirm, bindings)
}

// AccessForm renders the anonymous subscription access form.
// Without a resolvable action only the description is shown.
func (r *Renderer) AccessForm(form *model.AnonymousAccessForm) (string, error) {
	action, err := r.Path(form.Action)
	if errors.Is(err, ErrRouteUnavailable) {
		action = ""
	} else if err != nil {
		return "", err
	}
	return r.render(tplAccessForm, map[string]any{
		"action":       action,
		"description":  form.Description,
		"email_label":  form.EmailLabel,
		"submit_label": form.SubmitLabel,
	})
}

// Detail renders the subscription canonical view
func (r *Renderer) Detail(detail *model.SubscriptionDetail) (string, error) {
	fields := make([]map[string]any, 0, len(detail.Fields))
	for _, f := range detail.Fields {
		cell, err := r.cellBindings(detail.Values[f.Key])
		if err != nil {
			return "", err
		}
		cell["label"] = f.Label
		fields = append(fields, cell)
	}
	return r.render(tplDetail, map[string]any{"fields": fields})
}

func (r *Renderer) cellBindings(cell model.Cell) (map[string]any, error) {
	b := map[string]any{"text": cell.Text, "href": ""}
	if cell.Link != nil {
		b["text"] = cell.Link.Title
		href, err := r.Path(cell.Link.URL)
		if err != nil && !errors.Is(err, ErrRouteUnavailable) {
			return nil, err
		}
		b["href"] = href
	}
	ops, err := r.linkBindings(cell.Operations)
	if err != nil {
		return nil, err
	}
	b["operations"] = ops
	return b, nil
}

func (r *Renderer) linkBinding(link model.Link) (map[string]any, error) {
	href, err := r.Path(link.URL)
	if err != nil {
		return nil, err
	}
	return map[string]any{"title": link.Title, "href": href}, nil
}

// linkBindings drops links to routes this deployment cannot resolve
func (r *Renderer) linkBindings(links []model.Link) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(links))
	for _, l := range links {
		b, err := r.linkBinding(l)
		if errors.Is(err, ErrRouteUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Renderer) pagerBindings(p model.Pager, route string) (map[string]any, error) {
	b := map[string]any{
		"page":     p.Page + 1,
		"pages":    p.Pages(),
		"previous": "",
		"next":     "",
	}
	if p.HasPrevious() {
		u := model.RouteURL(route)
		u.Options.Page = p.Page - 1
		href, err := r.Path(u)
		if err != nil {
			return nil, err
		}
		b["previous"] = href
	}
	if p.HasNext() {
		u := model.RouteURL(route)
		u.Options.Page = p.Page + 1
		href, err := r.Path(u)
		if err != nil {
			return nil, err
		}
		b["next"] = href
	}
	return b, nil
}
