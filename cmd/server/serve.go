package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the resume page and the export API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, closeLog, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(context.WithoutCancel(ctx), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			rt.handler().Register(app)
			app.Hooks().OnListen(func(fiber.ListenData) error {
				// the browser loads our own page, so it can only start once we listen
				go func() { _ = rt.openBrowser(ctx, cfg.PageURL()) }()
				return nil
			})

			errCh := make(chan error, 1)
			go func() { errCh <- app.Listen(":" + cfg.Server.Port) }()
			log.WithField("port", cfg.Server.Port).Info("server listening")

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log.Info("shutting down")
			if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
				log.WithError(err).Warn("http shutdown")
			}
			return nil
		},
	}
}
