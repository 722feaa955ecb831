package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nikogura/folio/pkg/config"
	"github.com/nikogura/folio/pkg/content"
	"github.com/nikogura/folio/pkg/i18n"
	"github.com/nikogura/folio/pkg/renderer"
	"github.com/nikogura/folio/pkg/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var cvOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var cvLang string

//nolint:gochecknoglobals // Cobra boilerplate
var cvPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var cvKeepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Render the portfolio as a CV",
	Long: `Render the stored portfolio as a markdown CV in English or Portuguese,
optionally converting it to PDF with pandoc.

Fields without a Portuguese version fall back to English.

Example:
  folio cv
  folio cv --lang pt --pdf
  folio cv --pdf --keep-markdown=false --output-dir ~/Documents`,
	RunE: runCV,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(cvCmd)
	cvCmd.Flags().StringVar(&cvOutputDir, "output-dir", "", "Output directory (default from config)")
	cvCmd.Flags().StringVar(&cvLang, "lang", "en", "CV language: en or pt")
	cvCmd.Flags().BoolVar(&cvPDF, "pdf", false, "Render a PDF with pandoc")
	cvCmd.Flags().BoolVar(&cvKeepMarkdown, "keep-markdown", true, "Keep markdown files after PDF generation")
}

func runCV(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
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

	lang := i18n.ParseLang(cvLang)
	outDir := getOutputDir(cvOutputDir, cfg.Defaults.OutputDir)
	cvMD, cvPDFPath := buildCVFilenames(data.PersonalInfo, lang, outDir)

	logger.Debug("rendering cv", slog.String("lang", string(lang)), slog.String("path", cvMD))

	err = renderer.WriteMarkdown(renderer.BuildCV(data, lang), cvMD)
	if err != nil {
		err = errors.Wrap(err, "failed to write CV markdown")
		return err
	}

	out := cmd.OutOrStdout()
	if !cvPDF {
		_, _ = fmt.Fprintf(out, "CV markdown saved at: %s\n", cvMD)
		return err
	}

	opts := renderer.PDFOptions{TemplatePath: cfg.Pandoc.TemplatePath, ClassPath: cfg.Pandoc.ClassFile}
	err = renderer.RenderPDF(ctx, cvMD, cvPDFPath, opts)
	if err != nil {
		_, _ = fmt.Fprintf(out, "CV markdown saved at: %s\n", cvMD)
		err = errors.Wrap(err, "failed to render CV PDF")
		return err
	}
	_, _ = fmt.Fprintf(out, "CV PDF saved at: %s\n", cvPDFPath)

	if !cvKeepMarkdown {
		cleanupErr := renderer.CleanupMarkdown(cvMD)
		if cleanupErr != nil {
			logger.Warn("failed to clean up markdown", slog.String("error", cleanupErr.Error()))
		}
	}

	return err
}

func buildCVFilenames(info content.PersonalInfo, lang i18n.Lang, outDir string) (mdPath, pdfPath string) {
	base := content.Slugify(info.Name + " " + info.LastName)
	if base == "" {
		base = "portfolio"
	}
	base += "-cv-" + string(lang)
	mdPath = filepath.Join(outDir, base+".md")
	pdfPath = filepath.Join(outDir, base+".pdf")
	return mdPath, pdfPath
}
