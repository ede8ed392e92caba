// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Production code accepts a Clock parameter instead of calling
// time.Now directly. In production, Real() provides the standard
// library behavior. In tests, Fake() provides a deterministic clock
// that advances only when Advance or Set is called, so captured
// timestamps are exact values rather than "roughly now" assertions.
//
// # Wiring Pattern
//
// Add a Clock field to structs that stamp records:
//
//	type Handler struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	h := &Handler{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	h := &Handler{clock: c}
package clock
