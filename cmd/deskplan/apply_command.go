package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"deskplan/internal/executor"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var rootDir string
	var assumeYes bool
	var forceRollback bool

	cmd := &cobra.Command{
		Use:   "apply <plan-file>",
		Short: "Execute a plan file, then confirm the changes or roll them back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if assumeYes && forceRollback {
				return errors.New("--yes and --rollback are mutually exclusive")
			}
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}

			session, err := executor.NewSession(rootDir, cfg, logger)
			if err != nil {
				return err
			}

			decide := newDecision(cmd, assumeYes, forceRollback)
			rep, err := session.Run(args[0], decide)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch rep.FinalState {
			case executor.StateCommitted:
				fmt.Fprintln(out, "Changes have been confirmed.")
			case executor.StateRolledBack:
				fmt.Fprintf(out, "Changes rolled back (%d undone, %d skipped).\n", rep.Undo.Undone, rep.Undo.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "Root directory the plan operates on (required)")
	_ = cmd.MarkFlagRequired("root")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Confirm changes without prompting")
	cmd.Flags().BoolVar(&forceRollback, "rollback", false, "Roll back without prompting")
	return cmd
}

// newDecision prints the run summary and resolves the commit/rollback
// choice: explicit flags win, otherwise an interactive prompt is used. With
// no terminal and no flag the run rolls back.
func newDecision(cmd *cobra.Command, assumeYes, forceRollback bool) executor.DecisionFunc {
	return func(rep *executor.Report) (bool, error) {
		out := cmd.OutOrStdout()
		printReport(out, rep)

		switch {
		case assumeYes:
			return true, nil
		case forceRollback:
			return false, nil
		}

		if !stdinIsTerminal() {
			return false, errors.New("no terminal available for confirmation; pass --yes or --rollback")
		}

		fmt.Fprint(out, "Plan executed. Confirm changes? (y/n): ")
		reader := bufio.NewReader(cmd.InOrStdin())
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
