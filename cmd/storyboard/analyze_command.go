package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/workflow"
)

func newAnalyzeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Decompose the script into scenes and characters",
		Long: `Analyze sends the script to the generation backend and replaces any
existing scenes and characters with the new decomposition. The scene
selection resets to the full set and the workflow advances to the scene
list step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.Analyze(ctx); err != nil {
					return err
				}
				snap := ctrl.Snapshot()
				fmt.Fprintf(cmd.OutOrStdout(), "Analyzed script into %d scenes and %d characters\n",
					len(snap.Scenes), len(snap.CharacterProfiles))
				return nil
			})
		},
	}
}
