// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// LinkOptions are query options appended to a generated URL
type LinkOptions struct {
	Language string `url:"language,omitempty"`
	Page     int    `url:"page,omitempty"`
}

// URL is a named route with its path parameters, resolved to a path at render time
type URL struct {
	Route   string
	Params  map[string]string
	Options LinkOptions
}

// RouteURL builds a URL for a route with optional key/value path parameters
func RouteURL(route string, params ...string) URL {
	u := URL{Route: route}
	if len(params) > 1 {
		u.Params = make(map[string]string, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			u.Params[params[i]] = params[i+1]
		}
	}
	return u
}

// Link is a titled URL
type Link struct {
	Title string
	URL   URL
}

// Priority is the responsive display priority of a column
type Priority string

// Responsive priorities; an empty priority is always shown
const (
	PriorityHigh   Priority = ""
	PriorityMedium Priority = "priority-medium"
	PriorityLow    Priority = "priority-low"
)

// Column is a table header cell
type Column struct {
	Key      Field
	Label    string
	Priority Priority
}

// Cell holds either plain text or a link; Operations is only set in the operations column
type Cell struct {
	Text       string
	Link       *Link
	Operations []Link
}

// Row is a table row keyed by column
type Row struct {
	Key   string
	Cells map[Field]Cell
}

// Pager describes the current page of a paged listing
type Pager struct {
	Page    int
	PerPage int
	Total   int
}

// Pages returns the number of pages, at least one
func (p Pager) Pages() int {
	if p.PerPage <= 0 || p.Total <= p.PerPage {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasNext reports whether a page follows the current one
func (p Pager) HasNext() bool {
	return p.Page+1 < p.Pages()
}

// HasPrevious reports whether a page precedes the current one
func (p Pager) HasPrevious() bool {
	return p.Page > 0
}

// Table is a rendered listing
type Table struct {
	Header []Column
	Rows   []Row
	Empty  string
	Pager  *Pager
}

// MetaTag is an HTML head meta element attached to a page
type MetaTag struct {
	Name    string
	Content string
}

// AnonymousAccessForm is shown instead of the listing to anonymous viewers with nothing to see
type AnonymousAccessForm struct {
	Title       string
	Description string
	EmailLabel  string
	SubmitLabel string
	Action      URL
}

// SubscriptionListing is the result of rendering the subscription table.
// Exactly one of Table and AnonymousForm is set.
type SubscriptionListing struct {
	Table         *Table
	Attached      []MetaTag
	AnonymousForm *AnonymousAccessForm
}

// MailingListListing is the mailing list collection screen
type MailingListListing struct {
	Table    *Table
	Attached []MetaTag
}

// ConfirmState is the derived state of a delete confirmation
type ConfirmState string

// Delete confirmation states
const (
	ConfirmStateBlocked     ConfirmState = "blocked"
	ConfirmStateConfirmable ConfirmState = "confirmable"
)

// ConfirmView is the delete confirmation screen.
// A blocked view has no Action; only Manage is set. A confirmable view has Action,
// ConfirmLabel and Cancel.
type ConfirmView struct {
	State        ConfirmState
	Title        string
	Question     string
	Description  string
	ConfirmLabel string
	Action       *URL
	Cancel       *Link
	Manage       *Link
}

// DeleteResult is the outcome of a confirmed deletion
type DeleteResult struct {
	Message  string
	Redirect URL
}

// SubscriptionDetail is the subscription canonical view
type SubscriptionDetail struct {
	Title    string
	Fields   []Column
	Values   map[Field]Cell
	Attached []MetaTag
}
