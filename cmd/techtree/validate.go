package main

import (
	"fmt"
	"strconv"

	domainconfig "techtree-backend/domain/config"
	"techtree-backend/domain/core/valueobjects"
	"techtree-backend/infrastructure/dataset"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a dataset file without loading it into a server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := dataset.LoadFile(args[0], domainconfig.DefaultDomainConfig())
			if err != nil {
				bad.Fprintf(cmd.OutOrStdout(), "  ✗ %s\n", args[0])
				return err
			}

			out := cmd.OutOrStdout()
			good.Fprintf(out, "  ✓ %s ", args[0])
			subtle.Fprintf(out, "(%d nodes, %d edges)\n\n", len(tree.Nodes()), len(tree.Edges()))

			counts := tree.CountByCategory()
			var rows [][]string
			for _, c := range valueobjects.AllCategories() {
				rows = append(rows, []string{string(c), strconv.Itoa(counts[c])})
			}
			table(out, []string{"Category", "Nodes"}, rows)
			fmt.Fprintln(out)
			return nil
		},
	}
}
