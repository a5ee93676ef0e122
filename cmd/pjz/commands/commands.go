// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the pjz CLI command tree: pack, unpack, and
// info over lib/pjz, plus version.
package commands

import (
	"fmt"

	"github.com/bureau-foundation/pjz/cmd/pjz/cli"
	"github.com/bureau-foundation/pjz/lib/version"
)

// Root builds and returns the complete pjz command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "pjz",
		Description: `pjz: project container tool.

Bundle a directory tree and a structured metadata record into one
compressed .pjz file, extract it back, or read the metadata without
touching the payload. The metadata rides in a header that standard
zstd tooling skips.`,
		Subcommands: []*cli.Command{
			packCommand(),
			unpackCommand(),
			infoCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("pjz %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
