package dataset

import (
	"github.com/shopspring/decimal"

	"housing-stats/models"
)

// Aggregator rolls the daily table up into one row per (month, district, kind).
//
// Stock kinds are averaged over the calendar length of the month and rounded
// to two places; unit fields are then rounded to a whole number. Both steps
// round half away from zero. The signed kind is summed.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// Aggregate returns the monthly rows grouped by month, then district, then kind.
func (a *Aggregator) Aggregate(t *DailyTable) []models.MonthlyRecord {
	spans := t.Months()
	out := make([]models.MonthlyRecord, 0, len(spans)*models.DistrictCount*models.KindCount)

	for _, span := range spans {
		for _, d := range models.AllDistricts() {
			for _, k := range models.AllKinds() {
				var sums models.Metrics
				for day := span.First; day <= span.Last; day++ {
					for i, v := range t.At(day, d, k).Values {
						sums[i] += v
					}
				}
				out = append(out, models.MonthlyRecord{
					Month:    span.Month,
					District: d,
					Kind:     k,
					Values:   summarise(k, sums, span.Month.Days()),
				})
			}
		}
	}
	return out
}

func summarise(k models.Kind, sums models.Metrics, days int) [models.FieldCount]decimal.Decimal {
	var out [models.FieldCount]decimal.Decimal
	for i, s := range sums {
		if !k.IsStock() {
			out[i] = decimal.NewFromInt(s)
			continue
		}
		out[i] = DailyAverage(s, days, models.IsUnitsField(i))
	}
	return out
}

// DailyAverage divides a monthly sum by the days in the month, rounds to two
// places and, for unit fields, to the nearest integer.
func DailyAverage(sum int64, days int, units bool) decimal.Decimal {
	avg := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(days)), 10).Round(2)
	if units {
		avg = avg.Round(0)
	}
	return avg
}
