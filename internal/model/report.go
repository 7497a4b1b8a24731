// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the records accumulated while a run progresses.
package model

import "time"

// Outcome is the one result recorded for an attempted target.
type Outcome struct {
	Target   Target
	State    TargetState
	Err      error
	Started  time.Time
	Finished time.Time
}

// Duration returns how long the build attempt took.
func (o Outcome) Duration() time.Duration {
	if o.Started.IsZero() || o.Finished.IsZero() {
		return 0
	}
	return o.Finished.Sub(o.Started)
}

// RunReport is the final state of a run once every attempted target has
// reached a terminal state.
type RunReport struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	// Attempts holds one Outcome per attempted target, in attempt order.
	Attempts []Outcome

	// Succeeded lists the targets that built, in attempt order.
	Succeeded []Target

	// Failed holds one human-readable line per failed target, in encounter order.
	Failed []string
}

// FailureDescription is the line recorded in RunReport.Failed for a target.
func FailureDescription(t Target) string {
	return "Build for " + t.String() + " failed. Skipping."
}
