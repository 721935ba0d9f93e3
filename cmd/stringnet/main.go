// Copyright Kampmann Lab, 2026. All rights reserved.

// Package main is the entry point for the stringnet CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command; running it without a subcommand executes
// the fetch pipeline.
var rootCmd = &cobra.Command{
	Use:   "stringnet",
	Short: "Fetch STRING protein-interaction networks for a gene list",
	Long: `stringnet queries the STRING protein-interaction database for a gene
list and writes each result to a labeled file: the network image, the
functional-enrichment table, the raw network edge table, and the
identifier mapping.

The default mode fetches the network image, expands the gene list with
the network's extra nodes, runs functional enrichment on the expanded
list, and maps the original identifiers. --network switches to a
network-only mode that fetches the raw edge table instead.`,
	SilenceUsage: true,
	RunE:         runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./stringnet.yaml or ~/.config/stringnet/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("stringnet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "stringnet"))
		}
	}

	viper.SetEnvPrefix("STRINGNET")
	viper.AutomaticEnv()

	viper.SetDefault("history_db", filepath.Join(".stringnet", "history.db"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
