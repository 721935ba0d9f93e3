package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kampmann-lab/stringnet/internal/catalog"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List artifacts written by past runs",
	Long: `History lists past pipeline runs recorded in the local SQLite
catalog, newest first, with the artifacts each run wrote.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := catalog.Open(viper.GetString("history_db"))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Started", "Mode", "Prefix", "Genes", "Artifact", "Bytes"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(false)

	for _, run := range runs {
		base := []string{
			strconv.FormatInt(run.ID, 10),
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Prefix,
			strconv.Itoa(run.Genes),
		}
		if len(run.Artifacts) == 0 {
			table.Append(append(base, "", ""))
			continue
		}
		for _, a := range run.Artifacts {
			table.Append(append(base, a.Path, strconv.FormatInt(a.Bytes, 10)))
		}
	}
	table.Render()
	return nil
}
