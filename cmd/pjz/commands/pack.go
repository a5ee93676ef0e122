// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pjz/cmd/pjz/cli"
	"github.com/bureau-foundation/pjz/lib/pjz"
)

// packParams holds the parameters for the "pjz pack" command.
type packParams struct {
	input       string
	output      string
	name        string
	author      string
	format      string
	edition     string
	version     string
	description string
	extraFile   string
	manifest    string
	level       int
	compression string
}

func packCommand() *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Bundle a directory into a .pjz container",
		Description: `Bundle a directory tree and its metadata into a single .pjz container.

The directory becomes a compressed tar payload; the metadata record
(name, author, format, edition, version, description, plus a free-form
extra value) rides in the container header. Identity fields come from
flags, from a YAML manifest (--manifest), or both — a flag set on the
command line wins over the manifest value for that field. A project
name is required, from either source.

The extra side-file (--extra) is JSON; comments and trailing commas
are tolerated. Its parsed content becomes the record's extra value
verbatim.`,
		Usage: "pjz pack -i <dir> -o <file> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flagSet.StringVarP(&params.input, "input", "i", "", "source directory to pack")
			flagSet.StringVarP(&params.output, "output", "o", "", "output container path")
			flagSet.StringVarP(&params.name, "name", "n", "", "project name")
			flagSet.StringVarP(&params.author, "auth", "a", "", "project author")
			flagSet.StringVarP(&params.format, "fmt", "f", "", "project format")
			flagSet.StringVarP(&params.edition, "ed", "e", "", "format edition")
			flagSet.StringVarP(&params.version, "ver", "v", "", "project version")
			flagSet.StringVarP(&params.description, "desc", "d", "", "project description")
			flagSet.StringVarP(&params.extraFile, "extra", "x", "", "JSON file with extra metadata")
			flagSet.StringVarP(&params.manifest, "manifest", "m", "", "YAML manifest with identity fields")
			flagSet.IntVarP(&params.level, "level", "l", pjz.DefaultCompressionLevel, "compression level (zstd scale)")
			flagSet.StringVar(&params.compression, "compression", "zstd", "payload codec: zstd, lz4, or xz")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Pack a project with name and version",
				Command:     "pjz pack -i ./myproject -o myproject.pjz -n myproject -v 1.2.0",
			},
			{
				Description: "Attach extra metadata from a JSON file",
				Command:     "pjz pack -i ./data -o data.pjz -n data -x extra.json",
			},
			{
				Description: "Take identity fields from a manifest",
				Command:     "pjz pack -i ./site -o site.pjz -m pjz.yaml",
			},
			{
				Description: "Pack with lz4 at the top of the level range",
				Command:     "pjz pack -i ./big -o big.pjz -n big --compression lz4 -l 9",
			},
		},
		Run: func(args []string) error { return runPack(&params, args) },
	}
}

func runPack(params *packParams, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("pack takes no positional arguments, got %q", args[0])
	}
	if params.input == "" {
		return fmt.Errorf("--input is required")
	}
	if params.output == "" {
		return fmt.Errorf("--output is required")
	}

	compression, err := pjz.ParseCompression(params.compression)
	if err != nil {
		return err
	}

	manifest := &pjz.Manifest{}
	if params.manifest != "" {
		manifest, err = pjz.LoadManifest(params.manifest)
		if err != nil {
			return err
		}
	}

	meta := pjz.NewMetadata(
		fallback(params.name, manifest.Name),
		fallback(params.author, manifest.Author),
		fallback(params.format, manifest.Format),
		fallback(params.edition, manifest.Edition),
		fallback(params.version, manifest.Version),
		fallback(params.description, manifest.Description),
	)
	if meta.Name == nil {
		return fmt.Errorf("a project name is required (--name or manifest)")
	}

	logger := cli.NewCommandLogger().With("command", "pack")
	logger.Debug("packing",
		"source", params.input,
		"output", params.output,
		"compression", compression.String(),
		"level", params.level)

	err = pjz.Pack(params.input, params.output, meta, pjz.PackOptions{
		ExtraFile:   params.extraFile,
		Level:       params.level,
		Compression: compression,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Successfully packed: %s\n", params.output)
	return nil
}

// fallback returns the flag value when set, else the manifest value.
func fallback(flagValue, manifestValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return manifestValue
}
