package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"housing-stats/config"
	"housing-stats/models"
	"housing-stats/scraper/gzhousing"
	"housing-stats/services"
	"housing-stats/storage"
	"housing-stats/utils"
)

const scrapeDateLayout = "20060102"

// RowSource yields the raw section rows of the statistics page.
type RowSource interface {
	Scrape(ctx context.Context) ([]models.RawRow, error)
}

// ScrapeOptions holds the flags of the scrape command.
type ScrapeOptions struct {
	OutDir  string
	NoStore bool
	// NewSource builds the page source; tests replace it.
	NewSource func(cfg *config.Config, logger *utils.Logger) RowSource
}

// NewScrapeCommand creates the scrape command.
func NewScrapeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScrapeOptions{
		NewSource: func(cfg *config.Config, logger *utils.Logger) RowSource {
			return gzhousing.New(cfg, logger)
		},
	}

	cmd := &cobra.Command{
		Use:   "scrape [YYYYMMDD]",
		Short: "Scrape the published daily statistics",
		Long: `Scrape the daily for-sale, unsold and signed tables published by the
Guangzhou housing authority and label them with the given date.

The snapshot is saved as an .xlsx workbook and stored in PostgreSQL,
replacing any rows already stored for that date. When a spreadsheet id is
configured the rows are also appended to Google Sheets.

Without a date argument the date is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(rootOpts, opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", rootOpts.Config.OutputDir, "directory for the workbook")
	cmd.Flags().BoolVar(&opts.NoStore, "no-store", false, "skip PostgreSQL and Google Sheets")

	return cmd
}

func runScrape(rootOpts *RootOptions, opts *ScrapeOptions, cmd *cobra.Command, args []string) error {
	cfg := rootOpts.Config
	logger := rootOpts.logger(cmd)
	ctx := cmd.Context()

	date, err := readScrapeDate(cmd.InOrStdin(), cmd.OutOrStdout(), args)
	if err != nil {
		return err
	}
	logger.Info("Scraping statistics for %s", date.Format("2006-01-02"))

	raw, err := opts.NewSource(cfg, logger).Scrape(ctx)
	if err != nil {
		return err
	}

	snap := services.NewCleaner(logger).Clean(date, raw)
	if snap.Len() == 0 {
		return fmt.Errorf("%w: every scraped row was dropped during cleaning", models.ErrScrapeFailed)
	}

	path := storage.WorkbookPath(opts.OutDir, snap)
	if err := storage.WriteWorkbook(path, snap); err != nil {
		return err
	}
	logger.Info("Workbook saved to %s", path)

	var storeErr error
	if !opts.NoStore {
		storeErr = storeSnapshot(ctx, rootOpts, snap, logger)
	}

	printSnapshotPreview(cmd.OutOrStdout(), snap, 3)
	return storeErr
}

// storeSnapshot writes the snapshot to PostgreSQL and, when configured, to
// Google Sheets. A failing target does not stop the others.
func storeSnapshot(ctx context.Context, rootOpts *RootOptions, snap *models.Snapshot, logger *utils.Logger) error {
	cfg := rootOpts.Config
	batch := uuid.New()

	var writers []storage.SnapshotWriter
	var errs []error

	pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), rootOpts.retry(logger), logger)
	if err != nil {
		logger.Error("PostgreSQL unavailable: %v", err)
		errs = append(errs, err)
	} else {
		defer pg.Close()
		writers = append(writers, pg)
	}

	if cfg.SpreadsheetID != "" {
		var clientOpts []option.ClientOption
		if cfg.CredentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		mirror, err := storage.NewSheetsMirror(ctx, cfg.SpreadsheetID, logger, clientOpts...)
		if err != nil {
			logger.Error("Google Sheets unavailable: %v", err)
			errs = append(errs, err)
		} else {
			writers = append(writers, mirror)
		}
	}

	for _, w := range writers {
		if err := w.WriteSnapshot(ctx, snap, batch); err != nil {
			logger.Error("Store failed: %v", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		logger.Info("Snapshot stored (batch %s)", batch)
	}
	return errors.Join(errs...)
}

// readScrapeDate takes the date from args, or prompts for it on in.
func readScrapeDate(in io.Reader, out io.Writer, args []string) (time.Time, error) {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		fmt.Fprint(out, "Date to scrape (e.g. 20250415): ")
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return time.Time{}, fmt.Errorf("read date: %w", err)
		}
		raw = line
	}
	return parseScrapeDate(raw)
}

func parseScrapeDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	date, err := time.Parse(scrapeDateLayout, raw)
	if err != nil || len(raw) != len(scrapeDateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYYMMDD such as 20250415", raw)
	}
	return date, nil
}

func printSnapshotPreview(w io.Writer, snap *models.Snapshot, n int) {
	for _, kind := range snap.Kinds() {
		rows := snap.Sections[kind]
		if len(rows) > n {
			rows = rows[:n]
		}
		fmt.Fprintf(w, "\n[%s] first %d rows:\n", kind.Native(), len(rows))
		for _, r := range rows {
			vals := make([]string, len(r.Values))
			for i, v := range r.Values {
				vals[i] = v.String()
			}
			fmt.Fprintf(w, "  %-4s %s\n", r.District.Native(), strings.Join(vals, "  "))
		}
	}
	fmt.Fprintln(w)
}
