package main

import (
	"fmt"
	"io"
	"os"

	"techtree-backend/application/queries"
	"techtree-backend/application/services"
	"techtree-backend/infrastructure/render"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func deriveCmd(root *rootOptions) *cobra.Command {
	var (
		view      viewFlags
		algorithm string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a positioned view of the tree",
		Example: "  techtree derive --focus tokamak --format svg -o tokamak.svg\n" +
			"  techtree derive --grouping Milestone",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "svg" {
				return fmt.Errorf("unknown format %q (json or svg)", format)
			}

			ctx := cmd.Context()
			container, cleanup, err := root.loadContainer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := container.QueryBus.Ask(ctx, queries.DeriveViewQuery{View: view.state(), Algorithm: algorithm})
			if err != nil {
				return err
			}
			derived := result.(*services.DerivedView)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "svg":
				err = render.SVG(w, derived)
			default:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				err = enc.Encode(derived)
			}
			if err != nil {
				return err
			}

			if output != "" {
				good.Fprintf(cmd.ErrOrStderr(), "  wrote %s ", output)
				subtle.Fprintf(cmd.ErrOrStderr(), "(%d nodes, %d edges, revision %d)\n", len(derived.Nodes), len(derived.Edges), derived.Revision)
			}
			return nil
		},
	}

	view.register(cmd)
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "layered", "Layout algorithm: layered or force")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
