package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/workflow"
)

func newResetCommand(cmdCtx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all project data and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("reset deletes the script, scenes, characters, and images; pass --yes to confirm")
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Project reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the destructive reset")
	return cmd
}
