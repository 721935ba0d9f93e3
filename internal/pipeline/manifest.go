// Copyright Kampmann Lab, 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// SuffixManifest is appended to the output prefix for the run manifest.
const SuffixManifest = "_run.yaml"

// Manifest is the on-disk record of a completed run: the parameters
// used and the artifacts written. Re-running with the same prefix
// overwrites it along with the other artifacts.
type Manifest struct {
	Input         string     `yaml:"input"`
	Prefix        string     `yaml:"prefix"`
	Mode          string     `yaml:"mode"`
	Nodes         int        `yaml:"nodes"`
	Flavor        string     `yaml:"flavor,omitempty"`
	Resolution    string     `yaml:"resolution,omitempty"`
	Genes         int        `yaml:"genes"`
	ExtendedNodes int        `yaml:"extended_nodes,omitempty"`
	Artifacts     []Artifact `yaml:"artifacts"`
	Timestamp     time.Time  `yaml:"timestamp"`
}

// writeManifest saves the run record next to the other artifacts.
func writeManifest(path string, opts Options, result *Result) error {
	m := Manifest{
		Input:         opts.Input,
		Prefix:        opts.Prefix,
		Mode:          result.Mode,
		Nodes:         opts.Nodes,
		Flavor:        opts.Flavor,
		Resolution:    opts.Resolution,
		Genes:         result.Genes,
		ExtendedNodes: result.ExtendedNodes,
		Artifacts:     result.Artifacts,
		Timestamp:     result.Started,
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling run manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written run manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing run manifest: %w", err)
	}
	return &m, nil
}
