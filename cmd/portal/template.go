package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

var templateOut string

var generateTemplateCmd = &cobra.Command{
	Use:         "generate-template",
	Short:       "Write the roster import template workbook",
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Create(templateOut)
		if err != nil {
			return err
		}
		if err := roster.Template(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("build template: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("file", templateOut).Msg("template written")
		return nil
	},
}

func init() {
	generateTemplateCmd.Flags().StringVarP(&templateOut, "out", "o", roster.TemplateFileName, "Output file")
}
