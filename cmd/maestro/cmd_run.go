package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCommand(configPath *string) *cobra.Command {
	var sessionID, userID, level string

	cmd := &cobra.Command{
		Use:     "run <command line>",
		Short:   "Dispatch a single command line",
		Example: `  maestro run 'analyze src/ --deep'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			raw := strings.Join(args, " ")
			resp := a.engine.Execute(cmd.Context(), raw, a.executionContext(sessionID, userID, level))
			printResponse(resp)
			if !resp.Result.Success {
				return fmt.Errorf("command failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "cli:default", "session identifier")
	cmd.Flags().StringVar(&userID, "user", "", "user identifier")
	cmd.Flags().StringVar(&level, "level", "intermediate", "user experience level")
	return cmd
}
