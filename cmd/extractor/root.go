package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"app_reviews/internal/adapters/export"
	"app_reviews/internal/adapters/observability"
	"app_reviews/internal/app"
	"app_reviews/internal/bootstrap"
	"app_reviews/internal/domain"
	"app_reviews/internal/shared"
)

type flags struct {
	from      string
	to        string
	minRating int
	keyword   string
	versions  []string
	limit     int
	format    string
	outDir    string
	workers   int
}

// extractor is the part of the service the command needs.
type extractor interface {
	ExtractAll(ctx context.Context, reqs []domain.ExtractRequest, workers int) []app.BatchResult
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "extractor [flags] URL...",
		Short: "Extract, filter and export marketplace reviews",
		Long: `extractor fetches reviews for each Play Store or App Store URL, applies
the date, rating, keyword and version filters and writes one CSV or XLSX file
per app into the output directory.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := shared.Load()
			log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "reviews-extractor")
			if !cmd.Flags().Changed("workers") {
				f.workers = cfg.Workers
			}

			ctx := cmd.Context()
			svc, closeCache := bootstrap.Service(ctx, cfg)
			defer closeCache()
			return run(ctx, svc, f, args, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "first day to keep (YYYY-MM-DD)")
	fl.StringVar(&f.to, "to", "", "last day to keep (YYYY-MM-DD)")
	fl.IntVar(&f.minRating, "min-rating", 0, "minimum star rating (1-5)")
	fl.StringVarP(&f.keyword, "keyword", "k", "", "case-insensitive text filter")
	fl.StringSliceVar(&f.versions, "version", nil, "app versions to keep (Play Store only)")
	fl.IntVarP(&f.limit, "limit", "n", 0, "maximum reviews to fetch per app")
	fl.StringVarP(&f.format, "format", "f", "csv", "export format: csv or xlsx")
	fl.StringVarP(&f.outDir, "out", "o", ".", "output directory")
	fl.IntVarP(&f.workers, "workers", "w", 4, "apps extracted concurrently")
	return cmd
}

func criteria(f flags) (domain.FilterCriteria, error) {
	var c domain.FilterCriteria
	var err error
	if f.from != "" {
		if c.DateStart, err = domain.ParseDate(f.from); err != nil {
			return c, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if c.DateEnd, err = domain.ParseDate(f.to); err != nil {
			return c, fmt.Errorf("--to: %w", err)
		}
	}
	c.MinRating = f.minRating
	c.Keyword = f.keyword
	c.Versions = f.versions
	return c, c.Validate()
}

// run extracts every URL and writes one export per app. It fails only when
// no export could be written.
func run(ctx context.Context, x extractor, f flags, urls []string, stdout io.Writer) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	c, err := criteria(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	reqs := make([]domain.ExtractRequest, 0, len(urls))
	for _, u := range urls {
		reqs = append(reqs, domain.ExtractRequest{URL: strings.TrimSpace(u), Criteria: c, Limit: f.limit})
	}

	written := 0
	for _, res := range x.ExtractAll(ctx, reqs, f.workers) {
		if res.Err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", res.Request.URL, res.Err)
			continue
		}
		ex := res.Extraction
		if ex.Outcome == domain.OutcomeFetchFailed && len(ex.Reviews) == 0 {
			fmt.Fprintf(stdout, "%s: %s\n", res.Request.URL, ex.Warning)
			continue
		}
		path := filepath.Join(f.outDir, export.FileName(ex.App, format))
		if err := writeFile(path, format, ex); err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", res.Request.URL, err)
			continue
		}
		written++
		msg := ex.Notice
		if ex.Warning != "" {
			msg = ex.Warning
		}
		fmt.Fprintf(stdout, "%s: %s -> %s\n", res.Request.URL, msg, path)
	}
	if written == 0 {
		return fmt.Errorf("no exports written")
	}
	return nil
}

func writeFile(path string, format export.Format, ex domain.Extraction) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Write(fh, format, ex.App.Marketplace, ex.Reviews)
}
