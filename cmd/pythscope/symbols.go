package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pythscope/internal/config"
	"pythscope/internal/symbols"
)

func runSymbols(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSymbols(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	table, err := symbols.NewTable(cfg.Oracles)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, entry := range table.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", entry.Symbol, entry.Address)
	}
	return tw.Flush()
}
