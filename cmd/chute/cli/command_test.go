// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "record",
				Run: func(args []string) error {
					called = "record"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"record"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "record" {
		t.Errorf("dispatched to %q, want %q", called, "record")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{
				Name: "record",
				Subcommands: []*Command{
					{
						Name: "verify",
						Run: func(args []string) error {
							called = "record verify"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"record", "verify", "capture.spool"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "record verify" {
		t.Errorf("dispatched to %q, want %q", called, "record verify")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "capture.spool" {
		t.Errorf("args = %v, want [capture.spool]", receivedArgs)
	}
}

// A command with both subcommands and a Run function passes unmatched
// first arguments through to Run instead of rejecting them. The root
// command relies on this: "chute .foo" is a filter expression, not a
// typo.
func TestCommand_Execute_UnmatchedArgFallsThroughToRun(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{Name: "record", Run: func(args []string) error { return nil }},
		},
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := root.Execute([]string{".items[0]", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 2 || receivedArgs[0] != ".items[0]" {
		t.Errorf("args = %v, want [.items[0] extra]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var indent bool
	var target string

	command := &Command{
		Name: "dump",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flagSet.BoolVar(&indent, "indent", false, "indent output")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--indent", "capture.spool"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !indent {
		t.Error("indent = false, want true")
	}
	if target != "capture.spool" {
		t.Errorf("target = %q, want %q", target, "capture.spool")
	}
}

func TestCommand_Execute_ParamsFlagParsing(t *testing.T) {
	type dumpParams struct {
		Indent bool   `flag:"indent,i" desc:"indent output"`
		Limit  int    `flag:"limit" desc:"max records" default:"100"`
		Unit   string `flag:"unit" desc:"filter unit"`
	}

	var params dumpParams
	var positional []string

	command := &Command{
		Name:   "dump",
		Params: func() any { return &params },
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"-i", "--unit", "cam", "capture.spool"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !params.Indent {
		t.Error("Indent = false, want true")
	}
	if params.Limit != 100 {
		t.Errorf("Limit = %d, want default 100", params.Limit)
	}
	if params.Unit != "cam" {
		t.Errorf("Unit = %q, want cam", params.Unit)
	}
	if len(positional) != 1 || positional[0] != "capture.spool" {
		t.Errorf("args = %v, want [capture.spool]", positional)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "dump",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flagSet.Bool("indent", false, "indent output")
			flagSet.String("unit", "", "filter unit")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--indnet"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --indent") {
		t.Errorf("error = %q, want suggestion for '--indent'", errStr)
	}
	// Suggestion should be on the same line as the error, not buried.
	if !strings.Contains(errStr, "indnet") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	// Should include a pointer to --help.
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "dump",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flagSet.Bool("indent", false, "indent output")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
	if !strings.Contains(err.Error(), "--help") {
		t.Errorf("error = %q, should point to --help", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{Name: "record"},
			{Name: "cbor"},
			{Name: "version"},
		},
	}

	err := root.Execute([]string{"recrod"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"record\"") {
		t.Errorf("error = %q, want suggestion for 'record'", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandNoSuggestion(t *testing.T) {
	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{Name: "record"},
			{Name: "cbor"},
		},
	}

	err := root.Execute([]string{"zzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not contain suggestion for distant input", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "chute",
				Summary: "CBOR capture toolkit",
				Subcommands: []*Command{
					{Name: "record", Summary: "Record operations"},
				},
			}

			err := root.Execute([]string{helpArg})
			if err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "chute",
		Subcommands: []*Command{
			{Name: "record", Summary: "Record operations"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "chute",
		Description: "CBOR capture, inspection, and indexing toolkit.",
		Subcommands: []*Command{
			{Name: "cbor", Summary: "Decode and inspect CBOR data"},
			{Name: "record", Summary: "Work with capture records"},
			{Name: "version", Summary: "Print version information"},
		},
		Examples: []Example{
			{
				Description: "Dump a spool as JSON Lines",
				Command:     "chute cbor dump < capture.spool",
			},
			{
				Description: "Verify every record digest in a spool",
				Command:     "chute record verify capture.spool",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	// Verify structural elements are present.
	for _, want := range []string{
		"CBOR capture, inspection, and indexing toolkit.",
		"Usage:",
		"chute <command> [flags]",
		"Commands:",
		"cbor",
		"Decode and inspect CBOR data",
		"record",
		"Work with capture records",
		"Examples:",
		"chute cbor dump < capture.spool",
		"chute record verify",
		"Run 'chute <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_PrintHelp_WithFlags(t *testing.T) {
	command := &Command{
		Name:    "dump",
		Summary: "Dump CBOR records as JSON Lines",
		Usage:   "chute cbor dump [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flagSet.Bool("indent", false, "indent each record")
			flagSet.Bool("deep", false, "decode nested CBOR payloads")
			return flagSet
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"chute cbor dump [flags]",
		"Flags:",
		"indent",
		"deep",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "chute"}
	record := &Command{Name: "record", parent: root}
	verify := &Command{Name: "verify", parent: record}

	if got := root.fullName(); got != "chute" {
		t.Errorf("root.fullName() = %q, want %q", got, "chute")
	}
	if got := record.fullName(); got != "chute record" {
		t.Errorf("record.fullName() = %q, want %q", got, "chute record")
	}
	if got := verify.fullName(); got != "chute record verify" {
		t.Errorf("verify.fullName() = %q, want %q", got, "chute record verify")
	}
}
