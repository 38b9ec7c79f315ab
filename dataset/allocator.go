package dataset

import (
	"fmt"
	"math"

	"housing-stats/models"
)

// AbsorptionRate is the monthly share of average for-sale inventory that
// turns into signed units.
const AbsorptionRate = 0.05

// Allocator derives the signed flow from a finished for-sale series.
type Allocator struct {
	rng Rand
}

func NewAllocator(rng Rand) *Allocator {
	return &Allocator{rng: rng}
}

// Allocate fills the signed records of t. It must run after the for-sale
// series is complete for the whole range.
func (a *Allocator) Allocate(t *DailyTable) error {
	for _, span := range t.Months() {
		for _, d := range models.AllDistricts() {
			for _, c := range models.AllCategories() {
				if err := a.allocate(t, span, d, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (a *Allocator) allocate(t *DailyTable, span MonthSpan, d models.District, c models.Category) error {
	total, err := MonthlySignedTotal(t, span, d, c)
	if err != nil {
		return err
	}

	units := Multinomial(a.rng, total, span.Len())
	for i, n := range units {
		day := span.First + i
		sale := t.At(day, d, models.ForSale).Values
		signed := &t.At(day, d, models.Signed).Values

		var perUnit float64
		if su := sale.Units(c); su > 0 {
			perUnit = float64(sale.Area(c)) / float64(su)
		}
		signed[c.UnitsIndex()] = n
		signed[c.AreaIndex()] = int64(math.Floor(float64(n) * perUnit))
	}
	return nil
}

// MonthlySignedTotal is floor(average daily for-sale units × AbsorptionRate)
// for one district and category over a month.
func MonthlySignedTotal(t *DailyTable, span MonthSpan, d models.District, c models.Category) (int64, error) {
	var sum int64
	for day := span.First; day <= span.Last; day++ {
		sum += t.At(day, d, models.ForSale).Values.Units(c)
	}
	avg := float64(sum) / float64(span.Len())
	total := math.Floor(avg * AbsorptionRate)
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 || total > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %s %s total %v",
			models.ErrInvalidAllocation, span.Month, d, c, total)
	}
	return int64(total), nil
}

// Multinomial splits total into parts non-negative integers with uniform
// probability per part. The parts always sum to total.
func Multinomial(rng Rand, total int64, parts int) []int64 {
	out := make([]int64, parts)
	if parts == 0 {
		return out
	}
	for i := int64(0); i < total; i++ {
		out[rng.IntN(parts)]++
	}
	return out
}
