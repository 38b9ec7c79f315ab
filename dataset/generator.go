package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"housing-stats/models"
)

const (
	initialShare = 0.6

	forSaleMaxGrowth = 0.004
	unsoldMaxSwing   = 0.05
	// In the first half of the year an unsold swing is made positive with
	// this probability.
	unsoldGrowthBias = 0.3
)

// Rand is the source of randomness for the stochastic steps. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed generator. A zero seed is replaced by the clock,
// so only non-zero seeds give reproducible datasets.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator evolves the for-sale and unsold stocks day by day from the seed.
type Generator struct {
	seed *SeedTable
	rng  Rand
}

func NewGenerator(seed *SeedTable, rng Rand) *Generator {
	return &Generator{seed: seed, rng: rng}
}

// Generate builds a DailyTable over dates with for-sale and unsold filled in.
// Signed records are left at zero for the Allocator.
func (g *Generator) Generate(dates []time.Time) (*DailyTable, error) {
	t, err := NewDailyTable(dates)
	if err != nil {
		return nil, err
	}

	for _, d := range models.AllDistricts() {
		for _, k := range []models.Kind{models.ForSale, models.Unsold} {
			t.At(0, d, k).Values = scale(g.seed.Value(k, d), initialShare)
		}
	}

	total := float64(t.Days())
	for day := 1; day < t.Days(); day++ {
		progress := float64(day) / total
		for _, d := range models.AllDistricts() {
			growth := g.uniform(0, forSaleMaxGrowth)
			prev := t.At(day-1, d, models.ForSale).Values
			t.At(day, d, models.ForSale).Values = scale(prev, 1+growth)

			swing := g.uniform(-unsoldMaxSwing, unsoldMaxSwing)
			if progress < 0.5 && g.rng.Float64() > 1-unsoldGrowthBias {
				swing = math.Abs(swing)
			}
			prev = t.At(day-1, d, models.Unsold).Values
			t.At(day, d, models.Unsold).Values = scale(prev, 1+swing)
		}
	}

	for i, r := range t.Records() {
		for f, v := range r.Values {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative %s at row %d", models.ErrInvalidSeed, models.FieldColumns[f], i)
			}
		}
	}
	return t, nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

// scale multiplies every field by factor and truncates toward zero.
func scale(m models.Metrics, factor float64) models.Metrics {
	var out models.Metrics
	for i, v := range m {
		out[i] = int64(math.Floor(float64(v) * factor))
	}
	return out
}
