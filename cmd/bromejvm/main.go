package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bromejvm",
		Short:         "Build and inspect JVM class files from Brome recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if s := viper.GetString("log-level"); s != "" {
				if _, err := zerolog.ParseLevel(s); err != nil {
					return fmt.Errorf("invalid log level %q", s)
				}
			}
			processGlobalFlags()
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, or error")
	root.PersistentFlags().Bool("no-color", false, "Disable colored output")

	viper.SetEnvPrefix("BROMEJVM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("no-color", "BROMEJVM_NO_COLOR", "NO_COLOR")

	root.AddCommand(newBuildCommand())
	root.AddCommand(newDisCommand())
	root.AddCommand(newVersionCommand())
	return root
}
