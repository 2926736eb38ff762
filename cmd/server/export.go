package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"portfolio/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		out      string
		filename string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the resume to PDF once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, closeLog, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			rt, err := newRuntime(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			// serve the page on a private port unless an external site is configured
			pageURL := cfg.Site.BaseURL
			if pageURL == "" {
				ln, err := net.Listen("tcp", "127.0.0.1:0")
				if err != nil {
					return err
				}
				app := fiber.New(fiber.Config{DisableStartupMessage: true})
				rt.handler().Register(app)
				go func() { _ = app.Listener(ln) }()
				defer app.Shutdown()
				pageURL = "http://" + ln.Addr().String() + "/resume"
			}

			if err := rt.openBrowser(ctx, pageURL); err != nil {
				return err
			}

			req := rt.request(filename)
			rt.controller.Activate(req)
			rt.controller.Wait()

			last := rt.recorder.Last()
			if last == nil || last.Status != domain.StatusSucceeded {
				if last != nil && last.ErrorMessage != "" {
					return errors.New(last.ErrorMessage)
				}
				return errors.New(domain.UnknownFailureMessage)
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), last.ArtifactPath)
				return nil
			}
			if err := copyFile(last.ArtifactPath, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "copy the PDF to this path")
	cmd.Flags().StringVar(&filename, "filename", "", "artifact file name (default from config)")
	return cmd
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, in); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
