package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lelesmart/internal/model"
)

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the confidence levels and their certainty factors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tLABEL\tCF")
			for _, level := range model.ConfidenceLevels() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", int(level), level, level.Label(), level.Factor())
			}
			return tw.Flush()
		},
	}
}
