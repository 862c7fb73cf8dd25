package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPersonasCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "personas",
		Short: "Inspect the persona pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newPersonasListCommand(configPath))
	cmd.AddCommand(newPersonasFeedbackCommand(configPath))
	return cmd
}

func newPersonasListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active personas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			personas, err := a.store.FindAllActive(cmd.Context())
			if err != nil {
				return fmt.Errorf("list personas: %w", err)
			}
			for _, p := range personas {
				fmt.Printf("%-22s %-10s %s\n", p.ID, p.Type, p.Name)
				for _, area := range p.Expertise {
					fmt.Printf("    %s (%s)\n", area.Domain, area.Level)
				}
			}
			return nil
		},
	}
}

func newPersonasFeedbackCommand(configPath *string) *cobra.Command {
	var success bool
	var satisfaction int

	cmd := &cobra.Command{
		Use:   "feedback <user-id> <persona-id>",
		Short: "Record interaction feedback for past-performance scoring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.RecordInteraction(cmd.Context(), args[0], args[1], success, satisfaction); err != nil {
				return fmt.Errorf("record interaction: %w", err)
			}
			fmt.Println("recorded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&success, "success", true, "whether the interaction succeeded")
	cmd.Flags().IntVar(&satisfaction, "satisfaction", 3, "satisfaction rating 1-5")
	return cmd
}
