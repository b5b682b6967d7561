// Package testutil provides deterministic helpers for tests that drive the
// clientbook CLI end to end.
package testutil
