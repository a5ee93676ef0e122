// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Pjz is the CLI for the .pjz project container format. It provides
// subcommands for bundling a directory with metadata (pack),
// extracting a container (unpack), and reading metadata without
// touching the payload (info).
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/pjz/cmd/pjz/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
