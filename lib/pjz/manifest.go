// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pjz

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is an optional YAML description of the identity fields,
// kept next to a project so pack invocations don't repeat them. The
// pack command merges it under explicit flags: a flag that is set
// wins over the manifest value for that field. The manifest never
// carries the extension value; that remains the extra side-file's
// job.
type Manifest struct {
	Name        string `yaml:"name"`
	Author      string `yaml:"author"`
	Format      string `yaml:"format"`
	Edition     string `yaml:"edition"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &manifest, nil
}
