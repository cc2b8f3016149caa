package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storyboard/internal/workflow"
)

func newScenesCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the analyzed scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				snap := ctrl.Snapshot()
				if len(snap.Scenes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scenes; run `storyboard analyze` first")
					return nil
				}

				rows := make([][]string, 0, len(snap.Scenes))
				for _, scene := range snap.Scenes {
					status := "pending"
					switch {
					case scene.Materialized():
						status = "image"
					case scene.Error != "":
						status = "failed"
					}
					rows = append(rows, []string{
						strconv.Itoa(scene.SceneNumber),
						truncate(scene.Title, 40),
						yesNo(snap.SceneSelected(scene.SceneNumber)),
						status,
						truncate(scene.VisualPrompt, 60),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Title", "Selected", "Status", "Visual Prompt"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

// newMatchingCommand renders the script-to-scene matching table used to
// verify that the decomposition covers the script without gaps.
func newMatchingCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "matching",
		Short: "Show the script-to-scene matching table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				snap := ctrl.Snapshot()
				if len(snap.Scenes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No scenes; run `storyboard analyze` first")
					return nil
				}

				rows := make([][]string, 0, len(snap.Scenes))
				for _, scene := range snap.Scenes {
					rows = append(rows, []string{
						strconv.Itoa(scene.SceneNumber),
						truncate(scene.ScriptStartSentence, 40),
						truncate(scene.ScriptEndSentence, 40),
						truncate(scene.CameraMovement, 24),
						scene.EstimatedDuration,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "From", "To", "Camera", "Duration"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newSelectCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <scene-number>",
		Short: "Toggle a scene in or out of the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseSceneNumber(args[0])
			if err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.ToggleSceneSelection(ctx, number); err != nil {
					return err
				}
				state := "deselected"
				if ctrl.Snapshot().SceneSelected(number) {
					state = "selected"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scene %d %s\n", number, state)
				return nil
			})
		},
	}
}

func newPromptCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt <scene-number> <text>",
		Short: "Edit a scene's visual prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseSceneNumber(args[0])
			if err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.UpdateVisualPrompt(ctx, number, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated visual prompt for scene %d\n", number)
				return nil
			})
		},
	}
}

func parseSceneNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil || number < 1 {
		return 0, fmt.Errorf("invalid scene number %q", arg)
	}
	return number, nil
}
