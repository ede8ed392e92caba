// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

// chute-view is a standalone TUI for browsing record spools. Designed
// as a Chute CLI plugin: `chute view` dispatches to this binary via
// PATH lookup.
//
// The viewer loads one spool file fully into memory and presents a
// two-pane display: a record list (time, unit, content type, size) and
// a detail pane with the decoded payload. Press / to fuzzy-filter,
// tab to switch panes, q to quit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/chuteworks/chute/lib/recordui"
	"github.com/chuteworks/chute/lib/version"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var filePath string

	flagSet := pflag.NewFlagSet("chute-view", pflag.ContinueOnError)
	flagSet.StringVar(&filePath, "file", "", "path to the spool file to browse")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Chute binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("chute-view %s\n", version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	// A bare trailing argument is accepted as the spool path so that
	// `chute-view capture.cbor` works without the flag.
	args := flagSet.Args()
	switch {
	case filePath == "" && len(args) == 1:
		filePath = args[0]
	case len(args) > 0:
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	if filePath == "" {
		printHelp(flagSet)
		return fmt.Errorf("no spool file given (use --file or a trailing path)")
	}

	entries, err := recordui.LoadSpool(filePath)
	if err != nil {
		return err
	}

	model := recordui.NewModel(filePath, entries)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Chute record viewer — interactive terminal UI for browsing spools.

Loads every record from the spool into memory and shows a record list
next to a detail pane. JSON payloads are pretty-printed with syntax
highlighting, text payloads render as-is, and binary payloads get a
hex dump.

Usage:
  chute-view [flags] [spool]

Examples:
  # Browse a capture spool
  chute-view /var/spool/chute/sensors.cbor

  # Equivalent, via the flag
  chute-view --file /var/spool/chute/sensors.cbor

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
