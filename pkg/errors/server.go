// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Unexpected reports a failure the admin screens cannot explain to the viewer,
// such as a malformed record in storage or an error reply from a responder.
// It is rendered as a 500 page.
type Unexpected struct {
	base
}

func (u Unexpected) Error() string {
	return u.error()
}

// NewUnexpected wraps err, if any, with message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ServiceUnavailable reports that storage, the access check responder or the
// user lookup could not be reached. It is rendered as a 503 page.
type ServiceUnavailable struct {
	base
}

func (su ServiceUnavailable) Error() string {
	return su.error()
}

// NewServiceUnavailable wraps err, if any, with message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}
