package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kampmann-lab/stringnet/internal/catalog"
	"github.com/kampmann-lab/stringnet/internal/genelist"
	"github.com/kampmann-lab/stringnet/internal/pipeline"
	"github.com/kampmann-lab/stringnet/internal/ratelimit"
	"github.com/kampmann-lab/stringnet/internal/stringdb"
	"github.com/kampmann-lab/stringnet/pkg/types"
)

func init() {
	rootCmd.Flags().StringP("input", "i", "", "input text file of genes to process (one symbol per line)")
	rootCmd.Flags().StringP("output_prefix", "o", "out", "output prefix to prepend to recovered data")
	rootCmd.Flags().IntP("nodes", "n", 10, "number of extra white nodes to add to the network")
	rootCmd.Flags().StringP("flavor", "f", "confidence", "network coloring mode")
	rootCmd.Flags().StringP("resolution", "r", "low", "image resolution: low or high")
	rootCmd.Flags().Bool("network", false, "network-only mode: fetch the raw edge table instead of image and enrichment")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.Flags().Duration("delay", 0, "pause after each API call (default 200ms)")
	rootCmd.MarkFlagRequired("input")
}

func runFetch(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	prefix, _ := cmd.Flags().GetString("output_prefix")
	nodes, _ := cmd.Flags().GetInt("nodes")
	flavor, _ := cmd.Flags().GetString("flavor")
	resolution, _ := cmd.Flags().GetString("resolution")
	networkOnly, _ := cmd.Flags().GetBool("network")

	if nodes < 0 {
		return fmt.Errorf("--nodes must be non-negative, got %d", nodes)
	}

	genes, err := genelist.Read(input)
	if err != nil {
		return err
	}
	if genes.Len() == 0 {
		return fmt.Errorf("gene list %s contains no symbols", input)
	}
	logrus.WithFields(logrus.Fields{"input": input, "genes": genes.Len()}).Info("gene list loaded")

	cfg := clientConfig(cmd)
	delay := cfg.RequestDelay
	if delay == 0 {
		delay = ratelimit.DefaultDelay
	}
	var limiter ratelimit.Limiter = ratelimit.FixedDelay{D: delay}
	if cmd.Flags().Changed("delay") {
		d, _ := cmd.Flags().GetDuration("delay")
		limiter = ratelimit.FixedDelay{D: d}
	}

	client := stringdb.New(genes, prefix, cfg, limiter)

	opts := pipeline.Options{
		Input:       input,
		Prefix:      prefix,
		Nodes:       nodes,
		Flavor:      flavor,
		Resolution:  resolution,
		NetworkOnly: networkOnly,
	}

	result, err := pipeline.Run(context.Background(), client, opts)
	if err != nil {
		return err
	}

	// History recording is ancillary: a catalog problem never fails a
	// run whose artifacts are already on disk.
	if err := recordHistory(opts, result); err != nil {
		logrus.WithError(err).Warn("could not record run history")
	}
	return nil
}

// clientConfig assembles the client settings from config file, env, and
// flags. Flags win over config; zero values fall back to the client's
// built-in defaults.
func clientConfig(cmd *cobra.Command) types.ClientConfig {
	cfg := types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		APIBase:        viper.GetString("api_base"),
		Species:        viper.GetInt("species"),
		CallerIdentity: viper.GetString("caller_identity"),
		RequestDelay:   viper.GetDuration("request_delay"),
	}
	if t, _ := cmd.Flags().GetDuration("timeout"); t > 0 {
		cfg.Timeout = t
	}
	return cfg
}

func recordHistory(opts pipeline.Options, result *pipeline.Result) error {
	store, err := catalog.Open(viper.GetString("history_db"))
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(opts, result)
	return err
}
