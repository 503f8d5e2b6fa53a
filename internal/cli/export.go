package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/candidlab/interviewd/internal/config"
	"github.com/candidlab/interviewd/internal/interview"
	"github.com/candidlab/interviewd/internal/llm"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the identifier mapping for recorded interviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			sessions, cleanup, err := openSessionStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			// The export path never talks to the completion API.
			conductor := interview.NewConductor(sessions, llm.NewOpenAIClient("", cfg.OpenAI.Model), log)

			data, err := json.MarshalIndent(conductor.ExportMapping(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
