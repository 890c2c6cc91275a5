package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  versionHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return cmd
}

func versionHandler(cmd *cobra.Command, args []string) error {
	if strings.ToLower(viper.GetString("output")) == "json" {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
