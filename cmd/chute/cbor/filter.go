// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/chuteworks/chute/cmd/chute/cli"
	"github.com/chuteworks/chute/lib/jsonl"
)

// Filter converts the CBOR sequence in data to a JSON Lines stream
// (the dump transform) and pipes it through jq with the given
// arguments. The jqArgs slice holds any jq flags followed by the
// filter expression. Output from jq goes directly to stdout/stderr.
//
// Empty input is passed through as an empty stream: jq then produces
// no output and exits 0, the same as running jq on an empty file.
func Filter(data []byte, jqArgs []string) error {
	var stream bytes.Buffer
	if err := jsonl.Dump(bytes.NewReader(data), &stream, jsonl.Options{}); err != nil {
		return err
	}

	return runJQ(stream.Bytes(), jqArgs)
}

// runJQ executes jq with the given arguments, feeding jsonData to its
// stdin. jq's stdout and stderr are connected directly to the process
// stdout and stderr.
func runJQ(jsonData []byte, jqArgs []string) error {
	jqPath, err := exec.LookPath("jq")
	if err != nil {
		return fmt.Errorf("jq not found in PATH; install jq or use \"chute dump\" for raw JSON Lines output")
	}

	cmd := exec.Command(jqPath, jqArgs...)
	cmd.Stdin = bytes.NewReader(jsonData)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// Propagate jq's exit code so piped commands behave
			// correctly (e.g., jq -e returns 1 for false/null).
			return &cli.ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run jq: %w", err)
	}
	return nil
}
