package dataset

import (
	"fmt"

	"housing-stats/models"
)

// Result is the output of a full generation run.
type Result struct {
	Year    int
	Daily   *DailyTable
	Monthly []models.MonthlyRecord
}

// Run generates a year of daily figures from the seed, allocates the signed
// flow and aggregates by month. All randomness comes from rng.
func Run(seed *SeedTable, year int, rng Rand) (*Result, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: nil seed table", models.ErrInvalidSeed)
	}

	daily, err := NewGenerator(seed, rng).Generate(YearDates(year))
	if err != nil {
		return nil, fmt.Errorf("dataset: generate: %w", err)
	}
	if err := NewAllocator(rng).Allocate(daily); err != nil {
		return nil, fmt.Errorf("dataset: allocate: %w", err)
	}

	return &Result{
		Year:    year,
		Daily:   daily,
		Monthly: NewAggregator().Aggregate(daily),
	}, nil
}
