package main

import (
	"fmt"
	"os"
	"path/filepath"

	"portfolio/internal/model"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the resume page HTML to a file for preview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, closeLog, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			page, err := model.NewPage(cfg.Site.TemplatesDir)
			if err != nil {
				return fmt.Errorf("parse templates: %w", err)
			}
			resume, err := model.LoadResume(cfg.Site.ContentFile, cfg.Site.SchemaFile)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create out: %w", err)
			}
			defer f.Close()
			err = page.Render(f, resume, model.PageOptions{
				TargetElementID: cfg.Export.TargetElementID,
				Filename:        cfg.Export.Filename,
			})
			if err != nil {
				return fmt.Errorf("execute template: %w", err)
			}
			log.WithField("out", out).Info("resume page rendered")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", filepath.Join("resume-data", "generated", "resume.html"), "output HTML file")
	return cmd
}
