package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikogura/folio/pkg/api"
	"github.com/nikogura/folio/pkg/auth"
	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/store"
	"github.com/nikogura/folio/pkg/upload"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var serveAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio HTTP server",
	Long: `Serve the portfolio JSON API, the admin endpoints, uploaded images and the sitemap.

The server stops gracefully on SIGINT or SIGTERM.

Example:
  folio serve
  folio serve --addr :9000`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	var logger *slog.Logger
	cfg, logger, err = loadConfig()
	if err != nil {
		return err
	}

	if cfg.Production && cfg.AdminPassword == config.DefaultAdminPassword {
		logger.Warn("admin password is the built-in default; set ADMIN_PASSWORD")
	}

	var s *store.Store
	s, err = openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := s.Close()
		if closeErr != nil {
			logger.Error("failed to close store", "error", closeErr)
		}
	}()

	server := api.NewServer(api.Options{
		Store:          s,
		Gate:           auth.NewGate(cfg.AdminPassword, cfg.SessionSecret, cfg.Production),
		Uploads:        upload.NewSaver(cfg.Uploads.Dir, cfg.Uploads.URLPrefix, cfg.Uploads.MaxBytes),
		BaseURL:        cfg.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	err = server.Run(ctx, addr)
	return err
}
