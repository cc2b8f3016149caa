package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/workflow"
)

func newDumpCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the full project data as formatted JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				dump, err := ctrl.Dump()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dump)
				return nil
			})
		},
	}
}
