// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the current time for testability. Production code
// injects Real(); tests inject Fake() with deterministic time control.
//
// Every production function that stamps a record or expands a
// time-templated path should accept a Clock parameter (or be a method
// on a struct with a Clock field) instead of calling time.Now
// directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
