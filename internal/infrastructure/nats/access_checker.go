// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/errors"
)

// accessChecker answers permission questions through the fga-sync access check subject.
// Requests carry one tuple per line; replies carry "tuple\ttrue|false" lines.
type accessChecker struct {
	conn requester
}

var operationRelations = map[string]string{
	constants.OperationView:   constants.RelationViewer,
	constants.OperationUpdate: constants.RelationWriter,
	constants.OperationDelete: constants.RelationWriter,
}

// HasPermission reports whether the viewer holds a site-wide permission
func (a *accessChecker) HasPermission(ctx context.Context, viewer *model.Viewer, permission string) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}

	return a.check(ctx, model.AccessCheckRequest{
		Object:   constants.ObjectTypePermission + ":" + permissionSlug(permission),
		Relation: constants.RelationGranted,
		User:     constants.ObjectTypeUser + ":" + viewer.Principal,
	})
}

// Access reports whether the viewer may perform operation on entity
func (a *accessChecker) Access(ctx context.Context, entity model.EntityRef, operation string, viewer *model.Viewer) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	if operation == constants.OperationView && entity.OwnerUID != "" && entity.OwnerUID == viewer.Principal {
		return true, nil
	}

	relation, ok := operationRelations[operation]
	if !ok {
		return false, errors.NewValidation(fmt.Sprintf("unknown operation %q", operation))
	}

	return a.check(ctx, model.AccessCheckRequest{
		Object:   entity.Object(),
		Relation: relation,
		User:     constants.ObjectTypeUser + ":" + viewer.Principal,
	})
}

func (a *accessChecker) check(ctx context.Context, request model.AccessCheckRequest) (bool, error) {
	tuple := request.Tuple()

	slog.DebugContext(ctx, "requesting access check",
		"subject", constants.AccessCheckSubject,
		"tuple", tuple,
	)

	msg, err := a.conn.RequestWithContext(ctx, constants.AccessCheckSubject, []byte(tuple))
	if err != nil {
		slog.ErrorContext(ctx, "access check request failed",
			"error", err,
			"tuple", tuple,
		)
		return false, errors.NewServiceUnavailable("access check unavailable", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(msg.Data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		got, result, found := strings.Cut(line, "\t")
		if !found {
			// the responder reports failures as a bare message
			slog.WarnContext(ctx, "access check responded with an error",
				"tuple", tuple,
				"error", line,
			)
			return false, errors.NewUnexpected("access check failed: " + line)
		}
		if got == tuple {
			return result == "true", nil
		}
	}

	slog.WarnContext(ctx, "access check response did not include the requested tuple", "tuple", tuple)
	return false, nil
}

// permissionSlug turns "administer mailing lists" into "administer_mailing_lists"
func permissionSlug(permission string) string {
	return strings.ReplaceAll(strings.TrimSpace(permission), " ", "_")
}

// NewAccessChecker creates an access checker backed by NATS request/reply
func NewAccessChecker(client *NATSClient) port.AccessChecker {
	return &accessChecker{
		conn: client.conn,
	}
}
