package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/api"
	"storyboard/internal/workflow"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API for frontend access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			addr := bind
			if addr == "" {
				addr = cfg.Paths.APIBind
			}
			// The lock stays held for the lifetime of the server so CLI
			// commands cannot mutate the snapshot behind its back.
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				server := api.NewServer(ctrl, logger)
				if err := server.Run(addr); err != nil {
					return fmt.Errorf("serve api: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Bind address (defaults to the configured api_bind)")
	return cmd
}
