package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-stats/models"
)

// constRand returns the same draw every time.
type constRand struct {
	f float64
	n int
}

func (r constRand) Float64() float64 { return r.f }
func (r constRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

func defaultSeed(t *testing.T) *SeedTable {
	t.Helper()
	st, err := DefaultSeedTable()
	require.NoError(t, err)
	return st
}

func TestGenerateInitialDay(t *testing.T) {
	table, err := NewGenerator(defaultSeed(t), NewRand(1)).Generate(YearDates(2024))
	require.NoError(t, err)

	assert.Equal(t, int64(313), table.At(0, models.Yuexiu, models.ForSale).Values.Units(models.Residential))
	// floor(2032 × 0.6) = 1219
	assert.Equal(t, int64(1219), table.At(0, models.Yuexiu, models.Unsold).Values.Units(models.Residential))
	assert.Equal(t, models.Metrics{}, table.At(0, models.Yuexiu, models.Signed).Values)
}

func TestGenerateZeroGrowthKeepsForSale(t *testing.T) {
	dates := YearDates(2023)[:3]
	table, err := NewGenerator(defaultSeed(t), constRand{f: 0}).Generate(dates)
	require.NoError(t, err)

	assert.Equal(t, int64(313), table.At(1, models.Yuexiu, models.ForSale).Values.Units(models.Residential))
	assert.Equal(t, table.At(0, models.Panyu, models.ForSale).Values, table.At(2, models.Panyu, models.ForSale).Values)

	// A zero draw maps to the bottom of the unsold swing: -5%.
	// floor(1219 × 0.95) = 1158
	assert.Equal(t, int64(1158), table.At(1, models.Yuexiu, models.Unsold).Values.Units(models.Residential))
}

func TestGenerateUnsoldGrowthBias(t *testing.T) {
	// Swing draw 0.1 gives -0.04; the bias roll 0.8 > 0.7 flips it to +0.04.
	dates := YearDates(2023)[:3]
	table, err := NewGenerator(defaultSeed(t), &seqRand{vals: []float64{
		0, 0.1, 0.8, // Yuexiu: growth, swing -0.04, bias roll
	}}).Generate(dates)
	require.NoError(t, err)

	day0 := table.At(0, models.Yuexiu, models.Unsold).Values.Units(models.Residential)
	day1 := table.At(1, models.Yuexiu, models.Unsold).Values.Units(models.Residential)
	assert.Greater(t, day1, day0, "first-half bias should flip the swing positive")
}

func TestGenerateUnsoldNoBiasFromMidYear(t *testing.T) {
	// With two days, day 1 sits at progress 0.5, so no bias roll is drawn
	// and the -0.04 swing stands: floor(1219 × 0.96) = 1170.
	dates := YearDates(2023)[:2]
	table, err := NewGenerator(defaultSeed(t), &seqRand{vals: []float64{
		0, 0.1, 0.8,
	}}).Generate(dates)
	require.NoError(t, err)

	day0 := table.At(0, models.Yuexiu, models.Unsold).Values.Units(models.Residential)
	day1 := table.At(1, models.Yuexiu, models.Unsold).Values.Units(models.Residential)
	assert.Equal(t, int64(1219), day0)
	assert.Equal(t, int64(1170), day1)
}

func TestGenerateRejectsNegativeSeed(t *testing.T) {
	seed := defaultSeed(t)
	seed.values[models.Unsold][models.Nansha][0] = -10

	_, err := NewGenerator(seed, NewRand(1)).Generate(YearDates(2024)[:5])
	assert.ErrorIs(t, err, models.ErrInvalidSeed)
}

func TestGenerateForSaleNonDecreasing(t *testing.T) {
	table, err := NewGenerator(defaultSeed(t), NewRand(42)).Generate(YearDates(2024))
	require.NoError(t, err)

	for _, d := range models.AllDistricts() {
		for day := 1; day < table.Days(); day++ {
			prev := table.At(day-1, d, models.ForSale).Values
			cur := table.At(day, d, models.ForSale).Values
			for i := range cur {
				require.GreaterOrEqual(t, cur[i], prev[i], "%s %s day %d", d, models.FieldColumns[i], day)
			}
		}
	}
}

func TestGenerateRejectsGaps(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	_, err := NewGenerator(defaultSeed(t), NewRand(1)).Generate(dates)
	assert.Error(t, err)

	_, err = NewGenerator(defaultSeed(t), NewRand(1)).Generate(nil)
	assert.Error(t, err)
}

// seqRand replays vals for Float64 then falls back to 0.5.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	if r.i < len(r.vals) {
		v := r.vals[r.i]
		r.i++
		return v
	}
	return 0.5
}

func (r *seqRand) IntN(n int) int { return 0 }
