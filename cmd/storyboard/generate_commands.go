package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"storyboard/internal/batch"
	"storyboard/internal/services"
	"storyboard/internal/workflow"
)

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate character and scene images",
	}

	generateCmd.AddCommand(newGenerateCharacterCommand(cmdCtx))
	generateCmd.AddCommand(newGenerateCharactersCommand(cmdCtx))
	generateCmd.AddCommand(newGenerateSceneCommand(cmdCtx))
	generateCmd.AddCommand(newGenerateScenesCommand(cmdCtx))

	return generateCmd
}

func newGenerateCharacterCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "character <id>",
		Short: "Generate (or regenerate) one character's reference image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.GenerateCharacter(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated image for character %s\n", args[0])
				return nil
			})
		},
	}
}

func newGenerateCharactersCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "Generate images for all characters that lack one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				report := ctrl.GenerateAllCharacters(ctx)
				if report.Empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "All characters already have images")
					return nil
				}
				printBatchReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newGenerateSceneCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scene <scene-number>",
		Short: "Generate (or regenerate) one scene's image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one scene number")
			}
			number, err := parseSceneNumber(args[0])
			if err != nil {
				return err
			}
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.GenerateScene(ctx, number); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated image for scene %d\n", number)
				return nil
			})
		},
	}
}

func newGenerateScenesCommand(cmdCtx *commandContext) *cobra.Command {
	var start, end int

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Generate images for every pending scene in a range",
		Long: `Generates images one scene at a time for every scene in the range that
does not already have one. A failed scene is recorded and the batch moves
on; scenes with existing images are skipped (use 'generate scene' to
regenerate a single scene).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				rangeStart, rangeEnd := start, end
				if rangeStart == 0 && rangeEnd == 0 {
					rangeStart, rangeEnd = ctrl.ActiveRange()
				}
				report, err := ctrl.GenerateSceneRange(ctx, rangeStart, rangeEnd)
				if err != nil {
					if errors.Is(err, services.ErrNothingToDo) {
						fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: every scene between %d and %d already has an image\n",
							rangeStart, rangeEnd)
						return nil
					}
					return err
				}
				printBatchReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "First scene number of the range (defaults to the active range)")
	cmd.Flags().IntVar(&end, "end", 0, "Last scene number of the range (defaults to the active range)")
	return cmd
}

func printBatchReport(out io.Writer, report batch.Report) {
	fmt.Fprintf(out, "Attempted %d, succeeded %d, failed %d\n",
		len(report.Results), report.Succeeded(), report.Failed())
	for _, result := range report.Results {
		if result.Err != nil {
			fmt.Fprintf(out, "  %s: %s\n", result.Key, services.UserMessage(result.Err))
		}
	}
	if report.Interrupted {
		fmt.Fprintln(out, "Batch interrupted before all items were attempted")
	}
}
