// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the per-target state machine.
//
// A target moves Pending -> Building -> {Succeeded | Failed} and never moves
// back. Modeling the states explicitly lets the engine reject illegal
// transitions and lets the run history store the terminal state verbatim.
package model

import "fmt"

// TargetState is the lifecycle position of one target within a run.
type TargetState string

const (
	StatePending   TargetState = "pending"
	StateBuilding  TargetState = "building"
	StateSucceeded TargetState = "succeeded"
	StateFailed    TargetState = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s TargetState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Transition validates a move from s to next and returns next.
func (s TargetState) Transition(next TargetState) (TargetState, error) {
	switch {
	case s == StatePending && next == StateBuilding:
		return next, nil
	case s == StateBuilding && next.IsTerminal():
		return next, nil
	}
	return s, fmt.Errorf("illegal target state transition %s -> %s", s, next)
}
