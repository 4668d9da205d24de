package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/recordstore/internal/workload"
	"github.com/Sumatoshi-tech/recordstore/pkg/config"
	"github.com/Sumatoshi-tech/recordstore/pkg/observability"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var (
	// ErrUnknownFormat indicates an unsupported --format value.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrExpectationsFailed is returned when a scenario step misses its expectation.
	ErrExpectationsFailed = errors.New("scenario expectations failed")
)

// metricsWaiter blocks while the metrics endpoint at addr should stay up.
type metricsWaiter func(ctx context.Context, addr string)

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	globals     *GlobalOptions
	format      string
	chartPath   string
	noColor     bool
	metricsAddr string

	wait metricsWaiter
}

// NewRunCommand creates the scenario run command.
func NewRunCommand(globals *GlobalOptions) *cobra.Command {
	return newRunCommandWithDeps(globals, waitForInterrupt)
}

func newRunCommandWithDeps(globals *GlobalOptions, wait metricsWaiter) *cobra.Command {
	rc := &RunCommand{globals: globals, wait: wait}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a catalog scenario",
		Long: `Run every step of a YAML scenario against a fresh records company and
report each step's status, value and expectation result.

The command exits non-zero when any expectation is unmet.`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.format, "format", FormatTable, "Output format: table, json")
	cmd.Flags().StringVar(&rc.chartPath, "chart", "", "Write an HTML chart of member expenses to this file")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colored table output")
	cmd.Flags().StringVar(&rc.metricsAddr, "metrics-addr", "", "Serve Prometheus /metrics on this address until interrupted")

	return cmd
}

func (rc *RunCommand) run(cmd *cobra.Command, args []string) error {
	if rc.format != FormatTable && rc.format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, rc.format)
	}

	cfg, err := config.LoadConfig(rc.globals.ConfigPath)
	if err != nil {
		return err
	}

	scenario, err := workload.Load(args[0])
	if err != nil {
		return err
	}

	obsCfg := observabilityConfig(cfg, rc.globals, observability.ModeCLI)
	obsCfg.Prometheus = rc.metricsAddr != ""

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var metricsSrv *observability.MetricsServer

	if rc.metricsAddr != "" {
		metricsSrv, err = observability.NewMetricsServer(ctx, rc.metricsAddr, providers.MetricsHandler, providers.Tracer)
		if err != nil {
			return err
		}

		defer func() {
			closeErr := metricsSrv.Close(context.Background())
			if closeErr != nil {
				providers.Logger.Warn("metrics server close failed", "error", closeErr)
			}
		}()
	}

	runner := workload.NewRunner(
		workload.WithLogger(providers.Logger),
		workload.WithTracer(providers.Tracer),
		workload.WithMetrics(red),
		workload.WithCompanyOptions(companyOptions(cfg)...),
	)

	report, err := runner.Run(ctx, scenario)
	if err != nil {
		return err
	}

	err = rc.writeReport(cmd.OutOrStdout(), report)
	if err != nil {
		return err
	}

	if metricsSrv != nil {
		providers.Logger.Info("serving metrics", "addr", metricsSrv.Addr())
		rc.wait(ctx, metricsSrv.Addr())
	}

	if report.Failed() {
		return fmt.Errorf("%w: %d of %d steps", ErrExpectationsFailed, report.FailedCount(), len(report.Steps))
	}

	return nil
}

func (rc *RunCommand) writeReport(w io.Writer, report *workload.Report) error {
	switch rc.format {
	case FormatJSON:
		err := report.WriteJSON(w)
		if err != nil {
			return err
		}
	default:
		err := report.WriteTable(w, !rc.noColor && !color.NoColor)
		if err != nil {
			return err
		}

		if !rc.globals.Quiet {
			_, err = fmt.Fprintln(w, report.Summary())
			if err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
		}
	}

	if rc.chartPath == "" {
		return nil
	}

	f, err := os.Create(rc.chartPath)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	err = report.WriteChart(f)

	return errors.Join(err, f.Close())
}

func waitForInterrupt(ctx context.Context, _ string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
}
