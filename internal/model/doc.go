// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the plain data types shared by every stage of a
// regiongrid run.
//
// # Core Concepts
//
//   - Target: one reference area to build a site for. It is created by the
//     codelist package and never changes afterwards.
//
//   - Outcome: the single result recorded for one attempted Target, carrying
//     the terminal state and, for failures, the cause.
//
//   - RunReport: the accumulated result of a whole run. Its Succeeded slice is
//     the exact content of the published index, in attempt order.
//
// The package has no dependencies on configuration formats, the filesystem or
// external tools, so it can be shared by the engine, the index writer and the
// run history store without import cycles.
package model
