// Package cli wires the interviewd commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/candidlab/interviewd/internal/logging"
)

var (
	cfgFile  string
	logLevel string

	// initialized in PersistentPreRun
	log *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interviewd",
		Short: "interviewd — AI interview chatbot service",
		Long:  "interviewd serves a scripted AI job interview over the web and records transcripts for narcissism research.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logLevel
			if level == "" {
				level = "info"
			}
			log = logging.New(nil, level)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal, silent)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
