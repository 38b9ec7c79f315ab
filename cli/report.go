package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"housing-stats/dataset"
	"housing-stats/services"
	"housing-stats/storage"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise a stored year of daily statistics",
		Long: `Read a year of daily rows back from PostgreSQL, aggregate them by month
and print the yearly signed totals, average stock and busiest month.

The year must hold every district and kind for each day in its range, as
written by "generate --store". Scraped snapshots alone are not enough.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.logger(cmd).WithComponent("report")

			store, err := storage.NewPostgresStore(cmd.Context(), rootOpts.Config.DSN(), rootOpts.retry(logger), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.FetchDaily(cmd.Context(), year)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no daily rows stored for %d", year)
			}

			table, err := dataset.TableFromRecords(records)
			if err != nil {
				return fmt.Errorf("stored rows for %d are incomplete: %w", year, err)
			}

			insights := services.NewInsightService(logger)
			insights.Print(cmd.OutOrStdout(), insights.Generate(year, dataset.NewAggregator().Aggregate(table)))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", rootOpts.Config.Year, "calendar year to report on")
	return cmd
}
