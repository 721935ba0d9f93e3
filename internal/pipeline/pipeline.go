// Copyright Kampmann Lab, 2026. All rights reserved.

// Package pipeline sequences the STRING API calls for a run and records
// the artifacts written.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kampmann-lab/stringnet/internal/genelist"
	"github.com/kampmann-lab/stringnet/internal/stringdb"
)

// Run modes.
const (
	ModeFullEnrichment = "full-enrichment"
	ModeNetworkOnly    = "network-only"
)

// Options holds the parameters of a pipeline run.
type Options struct {
	Input       string
	Prefix      string
	Nodes       int
	Flavor      string
	Resolution  string
	NetworkOnly bool
}

// Mode returns the run mode the options select.
func (o Options) Mode() string {
	if o.NetworkOnly {
		return ModeNetworkOnly
	}
	return ModeFullEnrichment
}

// Artifact describes one file a run wrote.
type Artifact struct {
	Step  string `yaml:"step"`
	Path  string `yaml:"path"`
	Bytes int64  `yaml:"bytes"`
}

// Result summarizes a completed run.
type Result struct {
	Mode          string
	Started       time.Time
	Genes         int
	ExtendedNodes int
	Artifacts     []Artifact
}

// Run executes the selected mode against the client. Every step is
// synchronous and any failure aborts the remaining steps; artifacts
// written before the failure stay on disk. On success the run manifest
// <prefix>_run.yaml is written alongside the other artifacts.
func Run(ctx context.Context, client *stringdb.Client, opts Options) (*Result, error) {
	result := &Result{
		Mode:    opts.Mode(),
		Started: time.Now().UTC(),
		Genes:   client.Genes().Len(),
	}
	logrus.WithFields(logrus.Fields{"mode": result.Mode, "genes": result.Genes}).Info("starting run")

	var err error
	if opts.NetworkOnly {
		err = runNetworkOnly(ctx, client, opts, result)
	} else {
		err = runFullEnrichment(ctx, client, opts, result)
	}
	if err != nil {
		return nil, err
	}

	manifestPath := opts.Prefix + SuffixManifest
	if err := writeManifest(manifestPath, opts, result); err != nil {
		return nil, fmt.Errorf("run manifest step: %w", err)
	}
	result.Artifacts = append(result.Artifacts, artifactFor("run manifest", manifestPath))

	logrus.WithField("artifacts", len(result.Artifacts)).Info("run complete")
	return result, nil
}

// runFullEnrichment is the default sequencing: network image, extended
// node list, enrichment of the extended list, identifier map of the
// original set.
func runFullEnrichment(ctx context.Context, client *stringdb.Client, opts Options, result *Result) error {
	if _, err := client.NetworkImage(ctx, nil, opts.Nodes, opts.Flavor, opts.Resolution, true); err != nil {
		return fmt.Errorf("network image step: %w", err)
	}
	result.Artifacts = append(result.Artifacts,
		artifactFor("network image", client.ArtifactPath(stringdb.SuffixNetworkImage)))

	extended, err := client.ExtendedNodes(ctx, nil)
	if err != nil {
		return fmt.Errorf("extended nodes step: %w", err)
	}
	result.ExtendedNodes = len(extended)
	logrus.WithField("nodes", len(extended)).Info("extended node list collected")

	if _, err := client.FunctionalEnrichment(ctx, genelist.FromSlice(extended), true); err != nil {
		return fmt.Errorf("functional enrichment step: %w", err)
	}
	result.Artifacts = append(result.Artifacts,
		artifactFor("functional enrichment", client.ArtifactPath(stringdb.SuffixEnrichment)))

	if _, err := client.IdentifierMap(ctx, nil, true); err != nil {
		return fmt.Errorf("identifier map step: %w", err)
	}
	result.Artifacts = append(result.Artifacts,
		artifactFor("identifier map", client.ArtifactPath(stringdb.SuffixIdentifierMap)))

	return nil
}

// runNetworkOnly fetches the raw edge table and the identifier map for
// the original gene set. Neither the extended node list nor the
// enrichment call runs in this mode.
func runNetworkOnly(ctx context.Context, client *stringdb.Client, opts Options, result *Result) error {
	if _, err := client.NetworkTable(ctx, nil, opts.Nodes, true); err != nil {
		return fmt.Errorf("network table step: %w", err)
	}
	result.Artifacts = append(result.Artifacts,
		artifactFor("network table", client.ArtifactPath(stringdb.SuffixNetworkTable)))

	if _, err := client.IdentifierMap(ctx, nil, true); err != nil {
		return fmt.Errorf("identifier map step: %w", err)
	}
	result.Artifacts = append(result.Artifacts,
		artifactFor("identifier map", client.ArtifactPath(stringdb.SuffixIdentifierMap)))

	return nil
}

// artifactFor stats a written file. Size is best effort; a stat failure
// leaves Bytes at zero rather than failing a run that already wrote
// the file.
func artifactFor(step, path string) Artifact {
	a := Artifact{Step: step, Path: path}
	if info, err := os.Stat(path); err == nil {
		a.Bytes = info.Size()
	}
	return a
}
