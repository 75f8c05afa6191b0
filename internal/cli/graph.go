package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chartdeps/internal/app"
)

type graphOptions struct {
	Manifests []string
	Workspace []string
}

func newGraphCommand() *cobra.Command {
	opts := graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the resolved dependency graph in DOT format",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Manifests, "manifest", nil, "Unit manifest paths")
	cmd.Flags().StringSliceVar(&opts.Workspace, "workspace", nil, "Workspace root(s) to discover unit manifests in")
	_ = viper.BindPFlag("manifests", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	return cmd
}

func runGraph(ctx context.Context, cmd *cobra.Command, opts graphOptions) error {
	service := app.NewService()
	result, err := service.Graph(ctx, app.GraphRequest{
		Manifests: resolveStrings(cmd, opts.Manifests, "manifests", "manifest"),
		Workspace: resolveStrings(cmd, opts.Workspace, "workspace", "workspace"),
	})
	if err != nil {
		return err
	}
	fmt.Print(result.DOT)
	return nil
}
