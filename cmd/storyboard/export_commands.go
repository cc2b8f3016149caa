package main

import (
	"context"

	"github.com/spf13/cobra"

	"storyboard/internal/export"
	"storyboard/internal/workflow"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Package generated assets for download",
	}

	exportCmd.AddCommand(newExportCharactersCommand(cmdCtx))
	exportCmd.AddCommand(newExportScenesCommand(cmdCtx))

	return exportCmd
}

func newExportCharactersCommand(cmdCtx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Bundle all character reference images into a zip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				snap := ctrl.Snapshot()
				archive, err := export.PackageCharacters(snap.CharacterProfiles, nowFunc())
				if err != nil {
					return err
				}
				return writeArchive(cmd, outputDir, archive)
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write the archive into")
	return cmd
}

func newExportScenesCommand(cmdCtx *commandContext) *cobra.Command {
	var outputDir string
	var start, end int

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Bundle scene images in a range into a zip",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				rangeStart, rangeEnd := start, end
				if rangeStart == 0 && rangeEnd == 0 {
					rangeStart, rangeEnd = ctrl.ActiveRange()
				}
				snap := ctrl.Snapshot()
				archive, err := export.PackageSceneRange(snap.Scenes, rangeStart, rangeEnd, nowFunc())
				if err != nil {
					return err
				}
				return writeArchive(cmd, outputDir, archive)
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write the archive into")
	cmd.Flags().IntVar(&start, "start", 0, "First scene number of the range (defaults to the active range)")
	cmd.Flags().IntVar(&end, "end", 0, "Last scene number of the range (defaults to the active range)")
	return cmd
}
