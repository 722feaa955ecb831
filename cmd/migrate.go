package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/source"
	"github.com/nikogura/folio/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var migrateFrom string

//nolint:gochecknoglobals // Cobra boilerplate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import a legacy portfolio document",
	Long: `Load a portfolio document from a file or URL, convert every plain string
field into bilingual text, and replace the stored portfolio with it.

Plain strings become English text with the same Portuguese text until translated.

Example:
  folio migrate --from ./portfolio.json
  folio migrate --from https://example.com/portfolio.json`,
	RunE: runMigrate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Path or URL of the document to import")
	_ = migrateCmd.MarkFlagRequired("from")
}

func runMigrate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg config.Config
	var logger *slog.Logger
	cfg, logger, err = loadConfig()
	if err != nil {
		return err
	}

	var raw []byte
	raw, err = source.Fetch(ctx, migrateFrom)
	if err != nil {
		return err
	}

	var data content.Data
	data, err = content.Decode(raw)
	if err != nil {
		err = errors.Wrapf(err, "failed to decode %s", migrateFrom)
		return err
	}

	var s *store.Store
	s, err = openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	err = s.Replace(ctx, data)
	if err != nil {
		err = errors.Wrap(err, "failed to store migrated portfolio")
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), migrationSummary(data))

	return err
}

func migrationSummary(data content.Data) (summary string) {
	summary = fmt.Sprintf("Migrated %d experiences, %d projects, %d articles",
		len(data.Experiences), len(data.Projects), len(data.Articles))
	return summary
}
