package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"smokecheck/internal/config"
	"smokecheck/internal/fetch"
	"smokecheck/internal/log"
	"smokecheck/internal/metrics"
	"smokecheck/internal/service"
	"smokecheck/pkg/report"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command and returns the process exit code: 0 when every
// check passed, 1 when any check failed or the run was aborted.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := exitOK

	var (
		expectedVersion string
		metricsFile     string
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "smokecheck",
		Short: "Post-release smoke test for a GitHub release and its landing page",
		Long: `smokecheck verifies that the landing page advertises the latest GitHub
release and that its download files, SEO files, social preview image and
structured data are reachable and correctly populated.

Configuration comes from SMOKECHECK_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.InitLogger(verbose)
			defer log.Sync()

			printer := report.New(stdout)

			cfg, err := config.Load()
			if err != nil {
				printer.Fatal(err)
				return err
			}

			runner := service.NewRunner(cfg, fetch.NewHTTPFetcher(cfg.GitHubAPI, cfg.GitHubToken), printer)
			summary, err := runner.Run(cmd.Context(), service.Options{
				ExpectedVersion: expectedVersion,
				RunID:           uuid.NewString(),
			})
			if err != nil {
				printer.Fatal(err)
				return err
			}

			if metricsFile != "" {
				if err := metrics.WriteTextfile(metricsFile, summary); err != nil {
					log.Logger.Error("failed to export metrics", zap.String("path", metricsFile), zap.Error(err))
				}
			}

			if !summary.OK() {
				code = exitFailure
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expectedVersion, "version", "", "compare the landing page against this version instead of the latest release tag")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write check results to this file in Prometheus text format")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFailure
	}
	return code
}
