package cmd

import (
	"fmt"
	"os"

	"github.com/grovetools/kit/config"
	"github.com/spf13/cobra"
)

func NewSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for kit.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			if output != "" {
				return os.WriteFile(output, append(data, '\n'), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to a file instead of stdout")
	return cmd
}
