package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/pkg/router"
)

func newReplCommand(configPath *string) *cobra.Command {
	var sessionID, userID, level string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive command shell",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			return runRepl(cmd.Context(), a, sessionID, userID, level)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "repl:default", "session identifier")
	cmd.Flags().StringVar(&userID, "user", "", "user identifier")
	cmd.Flags().StringVar(&level, "level", "intermediate", "user experience level")
	return cmd
}

func runRepl(ctx context.Context, a *app, sessionID, userID, level string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "maestro> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("maestro", formatVersion(), "- type 'help' for commands, 'exit' to quit")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		resp := a.engine.Execute(ctx, line, a.executionContext(sessionID, userID, level))
		printResponse(resp)
	}
}

// printResponse renders a dispatch outcome: warnings, suggestions for
// unknown commands, then the result or its errors.
func printResponse(resp router.Response) {
	for _, w := range resp.Validation.Warnings {
		fmt.Println("warning:", w.Message)
	}

	if resp.Result.Success {
		fmt.Print(resp.Result.Output)
		if !strings.HasSuffix(resp.Result.Output, "\n") {
			fmt.Println()
		}
		return
	}

	for _, e := range resp.Result.Errors {
		fmt.Println("error:", e.Error())
	}
	if len(resp.Parsed.Metadata.Alternatives) > 0 {
		names := make([]string, 0, len(resp.Parsed.Metadata.Alternatives))
		for _, alt := range resp.Parsed.Metadata.Alternatives {
			names = append(names, alt.Name)
		}
		fmt.Println("did you mean:", strings.Join(names, ", "))
	}
}
