package main

import (
	"context"
	"fmt"

	"techtree-backend/application/services"
	"techtree-backend/infrastructure/config"
	"techtree-backend/infrastructure/di"

	"github.com/spf13/cobra"
)

var version = "dev"

type rootOptions struct {
	datasetPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "techtree",
		Short:         "Explore the energy technology tree",
		Long:          brand.Sprint("techtree") + " derives focused views of the technology tree and asks the assistant about them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.datasetPath, "dataset", "", "Dataset file (YAML or JSON); defaults to DATASET_PATH or the embedded dataset")

	cmd.AddCommand(
		deriveCmd(opts),
		askCmd(opts),
		validateCmd(),
		serveCmd(opts),
		tokenCmd(),
	)
	return cmd
}

// loadContainer wires the application with the CLI's overrides applied.
func (o *rootOptions) loadContainer(ctx context.Context) (*di.Container, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if o.datasetPath != "" {
		cfg.DatasetPath = o.datasetPath
	}
	return di.InitializeContainer(ctx, cfg)
}

// viewFlags binds the ViewState fields shared by derive and ask.
type viewFlags struct {
	grouping      string
	focus         string
	onlyConnected bool
	search        string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.grouping, "grouping", "g", "None", "Category to group by, or None")
	cmd.Flags().StringVarP(&f.focus, "focus", "f", "", "Node id to focus")
	cmd.Flags().BoolVar(&f.onlyConnected, "only-connected", false, "With a focus, show only the focused node's neighbours")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Label filter (regular expression or substring)")
}

func (f *viewFlags) state() services.ViewState {
	return services.ViewState{
		Grouping:      f.grouping,
		FocusNodeID:   f.focus,
		OnlyConnected: f.onlyConnected,
		Search:        f.search,
	}
}
