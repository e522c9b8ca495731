package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/report"
)

func scoreCmd() *cobra.Command {
	var (
		source string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Assess the quality of a fruit photo on disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := entity.ParseSource(source)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			out, err := appCtr.AssessmentService.Assess(cmd.Context(), entity.AssessmentRequest{Data: data, Source: src})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), report.ErrorMessage(err))
				return err
			}

			panel := report.Build(out)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(panel)
			}
			fmt.Fprintln(cmd.OutOrStdout(), panel.Text())
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(entity.SourceUpload), "image source: upload or camera")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
