package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deskplan/internal/listing"
	"deskplan/internal/logging"
	"deskplan/internal/pathguard"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "plan <plan-file>",
		Short: "Generate a planning prompt with a listing of the root directory",
		Long: `Enumerates the root directory and writes a prompt file next to the plan
file, instructing an external planning agent to produce the plan script.
The script is then executed with "deskplan apply".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}

			guard, err := pathguard.New(rootDir)
			if err != nil {
				return err
			}

			entries, err := listing.Snapshot(guard.Root(), listing.Options{
				OpaqueExtensions: cfg.Listing.OpaqueExtensions,
				ExcludeNames:     []string{cfg.Journal.Filename, cfg.Run.LockFilename},
			})
			if err != nil {
				return err
			}

			prompt, err := listing.Prompt(guard.Root(), entries)
			if err != nil {
				return err
			}

			promptPath := args[0] + cfg.Listing.PromptSuffix
			if err := os.WriteFile(promptPath, []byte(prompt), 0o644); err != nil {
				return fmt.Errorf("write prompt file: %w", err)
			}

			logger.Info("prompt generated", logging.Int("entries", len(entries)), logging.String("path", promptPath))
			fmt.Fprintf(cmd.OutOrStdout(),
				"Prompt saved to %s. Hand it to your planning agent, then run: deskplan apply %s --root %s\n",
				promptPath, args[0], guard.Root())
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "Root directory to enumerate (required)")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}
