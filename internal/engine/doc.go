// Package engine drives a run: it attempts each target in order, isolates
// per-target failures and stops once the attempt cap is reached.
package engine
