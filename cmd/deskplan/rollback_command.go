package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deskplan/internal/executor"
)

func newRollbackCommand(ctx *commandContext) *cobra.Command {
	var rootDir string

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Undo the last applied plan using the persisted rollback journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}

			session, err := executor.NewSession(rootDir, cfg, logger)
			if err != nil {
				return err
			}

			res, err := session.Rollback()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Changes rolled back (%d undone, %d skipped).\n", res.Undone, res.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "Root directory the plan operated on (required)")
	_ = cmd.MarkFlagRequired("root")
	return cmd
}
