// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Language is a configured site language
type Language struct {
	ID     string
	Name   string
	Weight int
}
