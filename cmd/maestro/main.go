// maestro - command routing and persona selection for pluggable task
// handlers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maestrohq/maestro/pkg/config"
	"github.com/maestrohq/maestro/pkg/logger"
)

var (
	version   = "dev"
	gitCommit string
)

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func main() {
	var configPath string
	var debug bool

	root := &cobra.Command{
		Use:           "maestro",
		Short:         "Command routing and persona selection engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if debug {
				logger.SetLevel(logger.DEBUG)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newRunCommand(&configPath),
		newReplCommand(&configPath),
		newPersonasCommand(&configPath),
		newVersionCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the maestro version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("maestro", formatVersion())
		},
	}
}
