package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storyboard/internal/project"
	"storyboard/internal/workflow"
)

func newStyleCommand(cmdCtx *commandContext) *cobra.Command {
	styleCmd := &cobra.Command{
		Use:   "style",
		Short: "Inspect and select the visual style",
	}

	styleCmd.AddCommand(&cobra.Command{
		Use:         "list",
		Short:       "List the available visual styles",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(project.Styles()))
			for _, info := range project.Styles() {
				rows = append(rows, []string{string(info.ID), info.Label, info.Desc})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Label", "Description"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	})

	styleCmd.AddCommand(&cobra.Command{
		Use:   "set <id>",
		Short: "Select the visual style for generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				style := project.VisualStyle(args[0])
				if err := ctrl.SetStyle(ctx, style); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Style set to %s\n", styleLabel(style))
				return nil
			})
		},
	})

	return styleCmd
}
