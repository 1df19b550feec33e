// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/utils"
)

// ErrRouteUnavailable is returned for form routes when no forms base URL is configured
var ErrRouteUnavailable = errors.New("route is not served by this deployment")

// localRoutes are mounted by MailingListAdmin
var localRoutes = map[string]string{
	constants.RouteMailingListCollection:  "/mailing-lists",
	constants.RouteMailingListDeleteForm:  "/mailing-lists/{uid}/delete",
	constants.RouteSubscriptionCollection: "/subscriptions",
	constants.RouteSubscriptionCanonical:  "/subscriptions/{uid}",
}

// formRoutes are served by the subscription management service under FORMS_BASE_URL
var formRoutes = map[string]string{
	constants.RouteMailingListEditForm:    "/mailing-lists/{uid}/edit",
	constants.RouteSubscriptionEditForm:   "/subscriptions/{uid}/edit",
	constants.RouteSubscriptionDeleteForm: "/subscriptions/{uid}/delete",
	constants.RouteAnonymousAccess:        "/subscriptions/access",
}

// Router resolves route names to URLs
type Router struct {
	formsBaseURL string
}

// NewRouter creates a Router. An empty formsBaseURL leaves form routes unresolved.
func NewRouter(formsBaseURL string) (*Router, error) {
	if formsBaseURL == "" {
		return &Router{}, nil
	}
	u, err := url.Parse(formsBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid forms base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" || u.RawQuery != "" {
		return nil, fmt.Errorf("forms base URL %q must be absolute and carry no query", formsBaseURL)
	}
	return &Router{formsBaseURL: strings.TrimSuffix(formsBaseURL, "/")}, nil
}

// Path resolves a route URL to a path with its query options
func (rt *Router) Path(u model.URL) (string, error) {
	if pattern, ok := localRoutes[u.Route]; ok {
		return utils.BuildURL(utils.ExpandPath(pattern, u.Params), u.Options)
	}
	pattern, ok := formRoutes[u.Route]
	if !ok {
		return "", fmt.Errorf("unknown route %q", u.Route)
	}
	if rt.formsBaseURL == "" {
		return "", fmt.Errorf("%w: %s", ErrRouteUnavailable, u.Route)
	}
	return utils.BuildURL(rt.formsBaseURL+utils.ExpandPath(pattern, u.Params), u.Options)
}
