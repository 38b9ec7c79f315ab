package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"housing-stats/dataset"
	"housing-stats/models"
	"housing-stats/storage"
)

// GenerateOptions holds the flags of the generate command.
type GenerateOptions struct {
	Year     int
	Seed     uint64
	SeedFile string
	OutDir   string
	Store    bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := rootOpts.Config
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic year of daily and monthly statistics",
		Long: `Generate one calendar year of daily for-sale, unsold and signed figures
for every district, starting from the seed snapshot, then write the
daily table and its monthly summary as CSV files.

A zero seed draws from the clock; any other seed is reproducible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Year, "year", cfg.Year, "calendar year to generate")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", cfg.Seed, "random seed (0 = from clock)")
	cmd.Flags().StringVar(&opts.SeedFile, "seed-file", cfg.SeedFile, "YAML seed snapshot (default: built-in)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", cfg.OutputDir, "directory for the CSV files")
	cmd.Flags().BoolVar(&opts.Store, "store", false, "also store the daily table in PostgreSQL")

	return cmd
}

func runGenerate(rootOpts *RootOptions, opts *GenerateOptions, cmd *cobra.Command) error {
	logger := rootOpts.logger(cmd).WithComponent("generate")

	if opts.Year < 1 || opts.Year > 9999 {
		return fmt.Errorf("invalid year %d", opts.Year)
	}

	seed, err := dataset.LoadSeedTable(opts.SeedFile)
	if err != nil {
		return err
	}

	logger.Info("Generating %d with seed %d", opts.Year, opts.Seed)
	res, err := dataset.Run(seed, opts.Year, dataset.NewRand(opts.Seed))
	if err != nil {
		return err
	}
	logger.Info("Generated %d daily rows and %d monthly rows", res.Daily.Len(), len(res.Monthly))

	dailyPath, monthlyPath, err := storage.ExportDataset(opts.OutDir, opts.Year, res.Daily.Records(), res.Monthly)
	if err != nil {
		return err
	}
	logger.Info("Daily table saved to %s", dailyPath)
	logger.Info("Monthly summary saved to %s", monthlyPath)

	printDailyPreview(cmd.OutOrStdout(), res.Daily.Records(), 3)

	if opts.Store {
		store, err := storage.NewPostgresStore(cmd.Context(), rootOpts.Config.DSN(), rootOpts.retry(logger), logger)
		if err != nil {
			return err
		}
		defer store.Close()

		batch := uuid.New()
		if err := store.WriteDaily(cmd.Context(), res.Daily, batch); err != nil {
			return err
		}
		logger.Info("Daily table stored in PostgreSQL (batch %s)", batch)
	}
	return nil
}

func printDailyPreview(w io.Writer, records []models.DailyRecord, n int) {
	if len(records) < n {
		n = len(records)
	}
	fmt.Fprintf(w, "\nFirst %d rows:\n", n)
	for _, r := range records[:n] {
		fmt.Fprintf(w, "  %s  %-10s %-9s %v\n", r.Date.Format("2006-01-02"), r.District, r.Kind, r.Values)
	}
	fmt.Fprintln(w)
}
