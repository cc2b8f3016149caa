package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/project"
	"storyboard/internal/workflow"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the project workflow status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				snap := ctrl.Snapshot()
				start, end := ctrl.ActiveRange()

				generated := 0
				for _, scene := range snap.Scenes {
					if scene.Materialized() {
						generated++
					}
				}
				characterImages := 0
				for _, profile := range snap.CharacterProfiles {
					if profile.Materialized() {
						characterImages++
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project:         %s\n", ctrl.ProjectID())
				fmt.Fprintf(out, "Step:            %d (%s)\n", snap.ActiveStep, snap.ActiveStep.Label())
				fmt.Fprintf(out, "Script set:      %s\n", yesNo(snap.Script != ""))
				fmt.Fprintf(out, "Script refined:  %s\n", yesNo(snap.IsRefined))
				fmt.Fprintf(out, "Style:           %s\n", styleLabel(snap.SelectedStyle))
				fmt.Fprintf(out, "Scenes:          %d (%d with images)\n", len(snap.Scenes), generated)
				fmt.Fprintf(out, "Characters:      %d (%d with images)\n", len(snap.CharacterProfiles), characterImages)
				fmt.Fprintf(out, "Selected scenes: %d\n", len(snap.SelectedScenes))
				fmt.Fprintf(out, "Active range:    %d-%d\n", start, end)
				if !snap.LastUpdated.IsZero() {
					fmt.Fprintf(out, "Last updated:    %s\n", snap.LastUpdated.Local().Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}
}

func styleLabel(style project.VisualStyle) string {
	if info, ok := project.StyleByID(style); ok {
		return info.Label
	}
	return string(style)
}
