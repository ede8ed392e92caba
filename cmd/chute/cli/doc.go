// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the chute
// unified CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a flag surface (either a
// [pflag.FlagSet] factory or a tagged parameter struct; see
// [BindFlags]), and a Run function. Commands are assembled into a tree
// in cmd/chute/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Commands that treat a non-zero exit as a result rather than a
// failure (verification found a corrupt record, for instance) return
// [ExitError]; main checks for its ExitCode method and exits silently
// with that code.
package cli
