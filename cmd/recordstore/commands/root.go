// Package commands implements CLI command handlers for recordstore.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/recordstore/internal/catalog"
	"github.com/Sumatoshi-tech/recordstore/pkg/config"
	"github.com/Sumatoshi-tech/recordstore/pkg/observability"
	"github.com/Sumatoshi-tech/recordstore/pkg/version"
)

// GlobalOptions holds the persistent root flags.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// NewRootCommand creates the recordstore root command with every subcommand.
func NewRootCommand() *cobra.Command {
	globals := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "recordstore",
		Short: "Records company catalog: scripted scenarios and an MCP server",
		Long: `Recordstore models a records company: customers, club members with range
prizes, per-record purchase pricing and stackable record columns.

Commands:
  run       Execute a YAML scenario and report every step
  mcp       Serve the catalog operations as MCP tools on stdio
  version   Show build metadata`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "config file (default: recordstore.yaml in ., ./config, /etc/recordstore)")
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(NewRunCommand(globals))
	rootCmd.AddCommand(NewMCPCommand(globals))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// observabilityConfig maps the loaded configuration and root flags onto an
// observability configuration for mode.
func observabilityConfig(cfg *config.Config, globals *GlobalOptions, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.ShutdownTimeoutSec = cfg.Observability.ShutdownTimeoutSec
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON()

	switch {
	case globals.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	case globals.Quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

// companyOptions maps the catalog section onto company options.
func companyOptions(cfg *config.Config) []catalog.Option {
	return []catalog.Option{
		catalog.WithBasePrice(cfg.Catalog.BasePrice),
		catalog.WithInitialBuckets(cfg.Catalog.InitialBuckets),
		catalog.WithMaxLoad(cfg.Catalog.MaxLoad),
	}
}
