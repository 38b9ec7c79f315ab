package gzhousing

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-stats/models"
	"housing-stats/services"
	"housing-stats/utils"
)

func loadFixture(t *testing.T) []models.RawRow {
	t.Helper()
	f, err := os.Open("testdata/page.html")
	require.NoError(t, err)
	defer f.Close()

	rows, err := ParseSections(f, utils.Discard())
	require.NoError(t, err)
	return rows
}

func TestParseSections(t *testing.T) {
	rows := loadFixture(t)

	// header row, Yuexiu, Tianhe, Haizhu, Panyu; totals and short rows are skipped
	require.Len(t, rows, 5)

	byKind := map[models.Kind][]string{}
	for _, r := range rows {
		require.Len(t, r.Cells, 9)
		byKind[r.Kind] = append(byKind[r.Kind], r.Cells[0])
	}
	assert.Equal(t, []string{"行政区", "越秀区", "天河区"}, byKind[models.ForSale])
	assert.Equal(t, []string{"海珠区"}, byKind[models.Unsold])
	assert.Equal(t, []string{"番禺区"}, byKind[models.Signed])
	assert.Equal(t, "58,761.45", rows[1].Cells[2])
}

func TestParseSections_NoTitleNoRows(t *testing.T) {
	page := `<table><tr><td>越秀区</td><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td><td>7</td><td>8</td></tr></table>`
	rows, err := ParseSections(strings.NewReader(page), utils.Discard())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseSections_FeedsCleaner(t *testing.T) {
	rows := loadFixture(t)
	date := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	snap := services.NewCleaner(utils.Discard()).Clean(date, rows)

	assert.Equal(t, 4, snap.Len())
	require.Len(t, snap.Sections[models.ForSale], 2)
	assert.Equal(t, models.Yuexiu, snap.Sections[models.ForSale][0].District)
	assert.Equal(t, "58761.45", snap.Sections[models.ForSale][0].Values[1].String())
	assert.Equal(t, models.Tianhe, snap.Sections[models.ForSale][1].District)
}
