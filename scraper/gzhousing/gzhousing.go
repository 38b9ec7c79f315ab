package gzhousing

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"housing-stats/config"
	"housing-stats/models"
	"housing-stats/utils"
)

// Scraper fetches the daily new-build housing statistics page of the
// Guangzhou housing authority and splits it into raw section rows.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	logger = logger.WithComponent("gzhousing")
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape renders the statistics page and returns every valid section row.
func (s *Scraper) Scrape(ctx context.Context) ([]models.RawRow, error) {
	html, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrScrapeFailed, err)
	}

	rows, err := ParseSections(strings.NewReader(html), s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrScrapeFailed, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no district rows found on %s", models.ErrScrapeFailed, s.cfg.ScrapeURL)
	}

	s.logger.Info("Scrape complete, %d raw rows", len(rows))
	return rows, nil
}

// fetch loads the page in a headless browser and returns its rendered HTML.
// The tables are filled in by script, so the page is given time to settle.
func (s *Scraper) fetch(ctx context.Context) (string, error) {
	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Info("Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var html string
	err := s.retry.Do(ctx, "load-statistics-page", func(context.Context) error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.cfg.ScrapeTimeout)
		defer cancelTimeout()

		s.logger.Info("Navigating to %s", s.cfg.ScrapeURL)
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(s.cfg.ScrapeURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(s.cfg.SettleDelay),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		); err != nil {
			return fmt.Errorf("chromedp: %w", err)
		}
		return nil
	})
	return html, err
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
