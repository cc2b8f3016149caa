package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storyboard/internal/project"
	"storyboard/internal/workflow"
)

func newStepCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "step <1-5>",
		Short: "Navigate to a workflow step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step %q", args[0])
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				step := project.Step(value)
				if err := ctrl.GoToStep(ctx, step); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Now on step %d (%s)\n", value, step.Label())
				return nil
			})
		},
	}
}
