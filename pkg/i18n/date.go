// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package i18n

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-mailing-list-admin/pkg/constants"
)

// Named date formats, Go layout equivalents of "m/d/Y - H:i" and friends.
var dateLayouts = map[string]string{
	constants.DateFormatShort:  "01/02/2006 - 15:04",
	constants.DateFormatMedium: "Mon, 01/02/2006 - 15:04",
	constants.DateFormatLong:   "Monday, January 2, 2006 - 15:04",
}

// DateFormatter formats timestamps with named formats in a fixed location.
type DateFormatter struct {
	location *time.Location
}

// NewDateFormatter returns a formatter for the given IANA time zone.
// An empty zone means UTC.
func NewDateFormatter(zone string) (*DateFormatter, error) {
	if zone == "" {
		return &DateFormatter{location: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &DateFormatter{location: loc}, nil
}

// Format renders t using a named format. Unknown names fall back to medium.
func (f *DateFormatter) Format(t time.Time, format string) string {
	layout, ok := dateLayouts[format]
	if !ok {
		layout = dateLayouts[constants.DateFormatMedium]
	}
	return t.In(f.location).Format(layout)
}
