// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Field identifies a subscription listing column
type Field string

// Subscription listing fields
const (
	FieldTitle      Field = "title"
	FieldList       Field = "list"
	FieldEmail      Field = "email"
	FieldAuthor     Field = "author"
	FieldStatus     Field = "status"
	FieldChanged    Field = "changed"
	FieldOperations Field = "operations"

	// FieldDescription is only used by the mailing list collection
	FieldDescription Field = "description"
)

var (
	baseFields       = []Field{FieldTitle, FieldList, FieldEmail}
	privilegedFields = []Field{FieldAuthor, FieldStatus, FieldChanged}
)

// VisibleFieldsFor returns the entity fields shown to a viewer, in display order.
// The operations column is not an entity field and is never included.
func VisibleFieldsFor(privileged bool) []Field {
	fields := make([]Field, 0, len(baseFields)+len(privilegedFields))
	fields = append(fields, baseFields...)
	if privileged {
		fields = append(fields, privilegedFields...)
	}
	return fields
}

// IsPrivilegedField reports whether f is only shown to subscription administrators
func IsPrivilegedField(f Field) bool {
	for _, p := range privilegedFields {
		if p == f {
			return true
		}
	}
	return false
}
