package storage

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-stats/models"
)

func TestValuesClause(t *testing.T) {
	assert.Equal(t, "($1,$2),($3,$4)", valuesClause(2, 2))
	assert.Equal(t, "($1,$2,$3)", valuesClause(1, 3))
	assert.Equal(t, "", valuesClause(0, 3))
}

func TestStatsColumns(t *testing.T) {
	require.Len(t, statsColumns, 3+models.FieldCount+1)
	assert.Equal(t, "data_date", statsColumns[0])
	assert.Equal(t, "residential_units", statsColumns[3])
	assert.Equal(t, "batch_id", statsColumns[len(statsColumns)-1])
}

func TestDailyRecord(t *testing.T) {
	var vals [models.FieldCount]decimal.Decimal
	for i := range vals {
		vals[i] = decimal.NewFromInt(int64(i * 10))
	}
	cst := time.FixedZone("CST", 8*3600)

	rec, err := dailyRecord(time.Date(2024, 6, 30, 0, 0, 0, 0, cst), "Unsold", "Huangpu", vals)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, models.Unsold, rec.Kind)
	assert.Equal(t, models.Huangpu, rec.District)
	assert.Equal(t, models.Metrics{0, 10, 20, 30, 40, 50, 60, 70}, rec.Values)
}

func TestDailyRecord_UnknownNames(t *testing.T) {
	var vals [models.FieldCount]decimal.Decimal

	_, err := dailyRecord(time.Now(), "Leased", "Huangpu", vals)
	assert.Error(t, err)

	_, err = dailyRecord(time.Now(), "Signed", "Shenzhen", vals)
	assert.Error(t, err)
}
