// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pjz/cmd/pjz/cli"
	"github.com/bureau-foundation/pjz/lib/pjz"
)

// unpackParams holds the parameters for the "pjz unpack" command.
type unpackParams struct {
	ignoreUnknown string
}

func unpackCommand() *cli.Command {
	var params unpackParams

	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract a .pjz container",
		Description: `Extract a container's directory tree and metadata.

The tree is extracted into the output directory (created if missing,
parents included). The metadata record is written as metadata.json
into the parent of the output directory — next to the extracted tree,
never inside it. The payload codec is detected automatically.`,
		Usage: "pjz unpack <container> <output-dir> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("unpack", pflag.ContinueOnError)
			flagSet.StringVar(&params.ignoreUnknown, "ignore-unknown", "on",
				"unknown metadata fields: on (drop), off (reject), export (keep under extra.ignored)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Extract a container",
				Command:     "pjz unpack myproject.pjz ./extracted",
			},
			{
				Description: "Reject containers with unrecognized metadata fields",
				Command:     "pjz unpack myproject.pjz ./extracted --ignore-unknown off",
			},
		},
		Run: func(args []string) error { return runUnpack(&params, args) },
	}
}

func runUnpack(params *unpackParams, args []string) error {
	policy, err := pjz.ParseUnknownFieldPolicy(params.ignoreUnknown)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: pjz unpack <container> <output-dir>")
	}
	input, outputDir := args[0], args[1]

	logger := cli.NewCommandLogger().With("command", "unpack")
	logger.Debug("unpacking",
		"container", input,
		"output", outputDir,
		"unknown_fields", policy.String())

	meta, err := pjz.Unpack(input, outputDir, policy)
	if err != nil {
		return err
	}

	fmt.Printf("Successfully unpacked: %s\n", outputDir)
	if meta.Name != nil && meta.Version != nil {
		fmt.Printf("Package: %s v%s\n", *meta.Name, *meta.Version)
	}
	return nil
}
