package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chartdeps/internal/app"
)

type buildOptions struct {
	Manifests        []string
	Workspace        []string
	OutputDir        string
	Workers          int
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

func newBuildCommand() *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Package every chart in dependency order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Manifests, "manifest", nil, "Unit manifest paths")
	cmd.Flags().StringSliceVar(&opts.Workspace, "workspace", nil, "Workspace root(s) to discover unit manifests in")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory for packaged archives")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent packaging workers (0 = default)")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout-sec", 0, "HTTP repository timeout in seconds")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 0, "HTTP repository retry count")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 0, "HTTP repository retry delay in milliseconds")

	_ = viper.BindPFlag("manifests", cmd.Flags().Lookup("manifest"))
	_ = viper.BindPFlag("workspace", cmd.Flags().Lookup("workspace"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.Flags().Lookup("http-timeout-sec"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.Flags().Lookup("http-retry-delay-ms"))

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, opts buildOptions) error {
	service := app.NewService()
	result, buildErr := service.Build(ctx, app.BuildRequest{
		Manifests:        resolveStrings(cmd, opts.Manifests, "manifests", "manifest"),
		Workspace:        resolveStrings(cmd, opts.Workspace, "workspace", "workspace"),
		OutputDir:        resolveString(cmd, opts.OutputDir, "output", "output"),
		Workers:          resolveInt(cmd, opts.Workers, "workers", "workers"),
		HTTPTimeoutSec:   resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout_sec", "http-timeout-sec"),
		HTTPRetries:      resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelayMs: resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms"),
	})
	for _, node := range result.Report.Nodes {
		line := fmt.Sprintf("%-18s %s", node.Status, node.Node)
		if node.BlockedBy != "" {
			line += fmt.Sprintf(" (blocked by %s)", node.BlockedBy)
		}
		fmt.Println(line)
	}
	if buildErr != nil {
		return buildErr
	}
	fmt.Printf("report: %s\n", result.ReportPath)
	return nil
}
