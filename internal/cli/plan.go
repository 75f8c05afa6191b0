package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chartdeps/internal/app"
	"chartdeps/internal/types"
)

type planOptions struct {
	Manifests []string
	Workspace []string
}

func newPlanCommand() *cobra.Command {
	opts := planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the packaging schedule without executing it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Manifests, "manifest", nil, "Unit manifest paths")
	cmd.Flags().StringSliceVar(&opts.Workspace, "workspace", nil, "Workspace root(s) to discover unit manifests in")
	_ = viper.BindPFlag("manifests", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	return cmd
}

func runPlan(ctx context.Context, cmd *cobra.Command, opts planOptions) error {
	service := app.NewService()
	result, err := service.Plan(ctx, app.PlanRequest{
		Manifests: resolveStrings(cmd, opts.Manifests, "manifests", "manifest"),
		Workspace: resolveStrings(cmd, opts.Workspace, "workspace", "workspace"),
	})
	if err != nil {
		return err
	}
	for i, op := range result.Schedule {
		fmt.Printf("%3d  %s\n", i+1, describeOperation(op))
	}
	return nil
}

func describeOperation(op types.Operation) string {
	switch op.Kind {
	case types.OperationKindFetch:
		return fmt.Sprintf("fetch    %s", op.Node)
	case types.OperationKindExtract:
		return fmt.Sprintf("extract  %s -> %s/%s", op.Node, op.Target, op.Subdir)
	case types.OperationKindPackage:
		return fmt.Sprintf("package  %s", op.Node)
	default:
		return string(op.Kind)
	}
}
