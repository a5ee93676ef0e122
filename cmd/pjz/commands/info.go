// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pjz/cmd/pjz/cli"
	"github.com/bureau-foundation/pjz/lib/pjz"
)

// infoParams holds the parameters for the "pjz info" command.
type infoParams struct {
	ignoreUnknown string
}

func infoCommand() *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Read a container's metadata without extracting",
		Description: `Read a container's metadata record and save it as JSON.

Only the header is read; the payload is never decompressed. The JSON
projection is written to the output path (parent directories created)
and a short summary of the identity fields is printed.`,
		Usage: "pjz info <container> <output.json> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("info", pflag.ContinueOnError)
			flagSet.StringVar(&params.ignoreUnknown, "ignore-unknown", "on",
				"unknown metadata fields: on (drop), off (reject), export (keep under extra.ignored)")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Save a container's metadata next to it",
				Command:     "pjz info myproject.pjz myproject.json",
			},
			{
				Description: "Keep unrecognized fields under extra.ignored",
				Command:     "pjz info legacy.pjz legacy.json --ignore-unknown export",
			},
		},
		Run: func(args []string) error { return runInfo(&params, args) },
	}
}

func runInfo(params *infoParams, args []string) error {
	policy, err := pjz.ParseUnknownFieldPolicy(params.ignoreUnknown)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: pjz info <container> <output.json>")
	}
	input, output := args[0], args[1]

	logger := cli.NewCommandLogger().With("command", "info")
	logger.Debug("reading metadata", "container", input, "output", output)

	meta, err := pjz.Info(input, output, policy)
	if err != nil {
		return err
	}

	fmt.Printf("Metadata saved to: %s\n", output)
	fmt.Println("---")
	if meta.Name != nil {
		fmt.Printf("Name: %s\n", *meta.Name)
	}
	if meta.Author != nil {
		fmt.Printf("Author: %s\n", *meta.Author)
	}
	if meta.Version != nil {
		fmt.Printf("Version: %s\n", *meta.Version)
	}
	if meta.Format != nil {
		if meta.Edition != nil {
			fmt.Printf("Format: %s (%s)\n", *meta.Format, *meta.Edition)
		} else {
			fmt.Printf("Format: %s\n", *meta.Format)
		}
	}
	if meta.Description != nil {
		fmt.Printf("Description: %s\n", *meta.Description)
	}
	return nil
}
