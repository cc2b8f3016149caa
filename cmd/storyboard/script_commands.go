package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"storyboard/internal/export"
	"storyboard/internal/workflow"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	scriptCmd := &cobra.Command{
		Use:   "script",
		Short: "Manage the project script",
	}

	scriptCmd.AddCommand(newScriptSetCommand(ctx))
	scriptCmd.AddCommand(newScriptShowCommand(ctx))
	scriptCmd.AddCommand(newScriptRefineCommand(ctx))
	scriptCmd.AddCommand(newScriptExportCommand(ctx))

	return scriptCmd
}

func newScriptSetCommand(cmdCtx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Set the script text from an argument, a file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScriptInput(cmd, args, fromFile)
			if err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				ctrl.SetScript(ctx, script)
				fmt.Fprintf(cmd.OutOrStdout(), "Script updated (%d characters)\n", len(script))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the script from a file ('-' for stdin)")
	return cmd
}

func readScriptInput(cmd *cobra.Command, args []string, fromFile string) (string, error) {
	fromFile = strings.TrimSpace(fromFile)
	switch {
	case fromFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read script from stdin: %w", err)
		}
		return string(data), nil
	case fromFile != "":
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("read script file: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("provide the script as an argument or via --file")
	}
}

func newScriptShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current script",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				script := ctrl.Script()
				if strings.TrimSpace(script) == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No script set")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), script)
				return nil
			})
		},
	}
}

func newScriptRefineCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refine",
		Short: "Rewrite the script for platform content policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.requireAPIKey(); err != nil {
				return err
			}
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				if err := ctrl.Refine(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Script refined")
				return nil
			})
		},
	}
}

func newScriptExportCommand(cmdCtx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the script to a text file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withProject(cmd.Context(), func(ctx context.Context, ctrl *workflow.Controller) error {
				archive, err := export.Script(ctrl.Script(), nowFunc())
				if err != nil {
					return err
				}
				return writeArchive(cmd, outputDir, archive)
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory to write the file into")
	return cmd
}

func writeArchive(cmd *cobra.Command, outputDir string, archive export.Archive) error {
	target := filepath.Join(outputDir, archive.Filename)
	if err := os.WriteFile(target, archive.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", target, len(archive.Data))
	return nil
}
