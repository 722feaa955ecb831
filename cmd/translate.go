package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/llm"
	"github.com/nikogura/folio/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var translateDryRun bool

//nolint:gochecknoglobals // Cobra boilerplate
var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Fill in missing Portuguese text with Claude",
	Long: `Find every text whose Portuguese version is empty or still a copy of the
English, translate those texts with the Claude API, and save the portfolio.

Requires ANTHROPIC_API_KEY or anthropic_api_key in the config.

Example:
  folio translate --dry-run
  folio translate`,
	RunE: runTranslate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().BoolVar(&translateDryRun, "dry-run", false, "List untranslated texts without calling the API")
}

func runTranslate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

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

	var data content.Data
	data, err = s.Load(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to load portfolio")
		return err
	}

	out := cmd.OutOrStdout()
	pending := llm.PendingItems(&data)
	if len(pending) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to translate")
		return err
	}

	if translateDryRun {
		for _, item := range pending {
			_, _ = fmt.Fprintf(out, "%s: %s\n", item.Path, item.English)
		}
		_, _ = fmt.Fprintf(out, "%d texts need translation\n", len(pending))
		return err
	}

	err = cfg.RequireAnthropic()
	if err != nil {
		return err
	}
	client := llm.NewClient(cfg.AnthropicAPIKey, cfg.GetTranslationModel())

	spin := newSpinner(cmd.ErrOrStderr(), fmt.Sprintf("Translating %d texts...", len(pending)))
	spin.start()

	var changed []string
	changed, err = llm.TranslateDocument(ctx, client, &data)
	spin.finish()
	if err != nil {
		err = errors.Wrap(err, "translation failed")
		return err
	}

	err = s.Replace(ctx, data)
	if err != nil {
		err = errors.Wrap(err, "failed to save translations")
		return err
	}

	if getVerbose() {
		for _, path := range changed {
			_, _ = fmt.Fprintf(out, "translated %s\n", path)
		}
	}
	_, _ = fmt.Fprintf(out, "Translated %d texts\n", len(changed))

	return err
}
