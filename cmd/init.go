package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initForce bool

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config and seed the portfolio store",
	Long: `Write a default config file if none exists, then seed the portfolio store
with an empty document.

An existing portfolio is left alone unless --force is given.

Example:
  folio init
  folio init --config ./folio.yaml --force`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing portfolio document")
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	out := cmd.OutOrStdout()

	var wrote bool
	wrote, err = ensureConfig(getConfigFile())
	if err != nil {
		return err
	}
	if wrote {
		_, _ = fmt.Fprintln(out, "Wrote default config")
	}

	var cfg config.Config
	var logger *slog.Logger
	cfg, logger, err = loadConfig()
	if err != nil {
		return err
	}

	var s *store.Store
	s, err = openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	var created bool
	created, err = s.Init(context.Background(), content.Seed(cfg.Name), initForce)
	if err != nil {
		err = errors.Wrap(err, "failed to seed portfolio")
		return err
	}

	if created {
		_, _ = fmt.Fprintf(out, "Seeded portfolio at %s\n", cfg.Store.Location())
	} else {
		_, _ = fmt.Fprintf(out, "Portfolio already exists at %s (use --force to overwrite)\n", cfg.Store.Location())
	}

	return err
}

// ensureConfig writes a default config at path unless one is already there.
func ensureConfig(path string) (wrote bool, err error) {
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return wrote, err
		}
	}

	_, err = os.Stat(path)
	if err == nil {
		return wrote, err
	}
	if !os.IsNotExist(err) {
		err = errors.Wrapf(err, "failed to stat config file: %s", path)
		return wrote, err
	}

	err = config.InitConfig(path)
	if err != nil {
		return wrote, err
	}
	wrote = true

	return wrote, err
}
