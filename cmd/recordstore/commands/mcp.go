package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/recordstore/internal/mcp"
	"github.com/Sumatoshi-tech/recordstore/pkg/config"
	"github.com/Sumatoshi-tech/recordstore/pkg/observability"
)

// ErrMCPDisabled is returned when mcp.enabled is false in the configuration.
var ErrMCPDisabled = errors.New("mcp server is disabled by configuration")

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(globals *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server holds one records company for the lifetime of the connection and
exposes every catalog operation as a tool:
  - recordstore_new_month, recordstore_add_customer, recordstore_get_phone
  - recordstore_make_member, recordstore_is_member, recordstore_buy_record
  - recordstore_add_prize, recordstore_get_expenses
  - recordstore_put_on_top, recordstore_get_place`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(globals.ConfigPath)
			if err != nil {
				return err
			}

			if !cfg.MCP.Enabled {
				return ErrMCPDisabled
			}

			obsCfg := observabilityConfig(cfg, globals, observability.ModeMCP)
			obsCfg.LogJSON = true

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

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:         providers.Logger,
				Metrics:        red,
				Tracer:         providers.Tracer,
				CompanyOptions: companyOptions(cfg),
			})

			return srv.Run(cobraCmd.Context())
		},
	}
}
