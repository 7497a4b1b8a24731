// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Target, the unit of work of a run.
package model

import "fmt"

// Target identifies one reference area. ID is the short numeric code from the
// classification; Name is its display label.
type Target struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// String renders the target the way it appears in user-facing messages,
// e.g. "Albania (008)".
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.ID)
}
