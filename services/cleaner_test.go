package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-stats/models"
	"housing-stats/utils"
)

var scrapeDate = time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

func TestCleanerParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"522", "522"},
		{"60,246", "60246"},
		{" 1,234.56 ", "1234.56"},
		{"35553.8㎡", "35553.8"},
		{"", "0"},
		{"-", "0"},
		{"--", "0"},
		{"-12", "-12"},
		{", 12", "12"},
		{",", "0"},
	}

	for _, tt := range tests {
		got := parseNumber(tt.raw)
		assert.Equal(t, tt.want, got.String(), "parseNumber(%q)", tt.raw)
	}
}

func TestCleanerBuildsSections(t *testing.T) {
	c := NewCleaner(utils.Discard())
	raw := []models.RawRow{
		{Kind: models.ForSale, Cells: []string{"越秀区", "522", "60,246.5", "93", "71014", "265", "24436", "1265", "35553"}},
		{Kind: models.ForSale, Cells: []string{"荔湾区", "5220", "659759", "1612", "178913", "1571", "113789", "17215", "994708"}},
		{Kind: models.Signed, Cells: []string{"天河区", "12", "1300.25", "0", "0", "1", "80", "3", "36"}},
	}

	snap := c.Clean(scrapeDate, raw)
	require.Equal(t, 3, snap.Len())
	assert.Equal(t, []models.Kind{models.ForSale, models.Signed}, snap.Kinds())

	first := snap.Sections[models.ForSale][0]
	assert.Equal(t, models.Yuexiu, first.District)
	assert.Equal(t, "60246.5", first.Values[models.Residential.AreaIndex()].String())
	assert.Equal(t, models.Tianhe, snap.Sections[models.Signed][0].District)
}

func TestCleanerDropsInvalidRows(t *testing.T) {
	c := NewCleaner(utils.Discard())
	raw := []models.RawRow{
		{Kind: models.Unsold, Cells: []string{"合计", "1", "2", "3", "4", "5", "6", "7", "8"}},
		{Kind: models.Unsold, Cells: []string{"越秀区", "1", "2"}},
		{Kind: models.Unsold, Cells: []string{"海珠区", "1", "2", "3", "-4", "5", "6", "7", "8"}},
		{Kind: models.Unsold, Cells: []string{"番禺区", "1", "2", "3", "4", "5", "6", "7", "8"}},
	}

	snap := c.Clean(scrapeDate, raw)
	require.Len(t, snap.Sections[models.Unsold], 1)
	assert.Equal(t, models.Panyu, snap.Sections[models.Unsold][0].District)
}

func TestCleanerDeduplicatesDistrict(t *testing.T) {
	c := NewCleaner(utils.Discard())
	raw := []models.RawRow{
		{Kind: models.ForSale, Cells: []string{"花都区", "1", "1", "1", "1", "1", "1", "1", "1"}},
		{Kind: models.ForSale, Cells: []string{"花都区", "2", "2", "2", "2", "2", "2", "2", "2"}},
		{Kind: models.Unsold, Cells: []string{"花都区", "3", "3", "3", "3", "3", "3", "3", "3"}},
	}

	snap := c.Clean(scrapeDate, raw)
	require.Len(t, snap.Sections[models.ForSale], 1)
	assert.Equal(t, "1", snap.Sections[models.ForSale][0].Values[0].String())
	assert.Len(t, snap.Sections[models.Unsold], 1)
}
