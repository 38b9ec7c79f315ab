package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"housing-stats/models"
	"housing-stats/utils"
)

// numberRegexp captures a plain or thousands-separated number.
var numberRegexp = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// Cleaner turns scraped cell text into typed snapshot rows.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger.WithComponent("cleaner")}
}

// Clean validates and parses raw rows into a Snapshot for date. Rows with an
// unknown district, a wrong cell count or a negative figure are dropped; a
// district repeated within a section keeps its first row.
func (c *Cleaner) Clean(date time.Time, raw []models.RawRow) *models.Snapshot {
	snap := models.NewSnapshot(date)
	seen := make(map[models.Kind]map[models.District]struct{})

	for _, r := range raw {
		if len(r.Cells) != models.FieldCount+1 {
			c.logger.Warn("Dropping %s row with %d cells: %v", r.Kind, len(r.Cells), r.Cells)
			continue
		}

		district, err := models.ParseDistrict(r.Cells[0])
		if err != nil {
			c.logger.Warn("Dropping %s row: %v", r.Kind, err)
			continue
		}

		if seen[r.Kind] == nil {
			seen[r.Kind] = make(map[models.District]struct{})
		}
		if _, dup := seen[r.Kind][district]; dup {
			c.logger.Debug("Duplicate %s row for %s skipped", r.Kind, district)
			continue
		}

		row := models.SnapshotRow{District: district}
		valid := true
		for i, cell := range r.Cells[1:] {
			v := parseNumber(cell)
			if v.IsNegative() {
				c.logger.Warn("Dropping %s/%s: negative %s (%q)", r.Kind, district, models.FieldColumns[i], cell)
				valid = false
				break
			}
			row.Values[i] = v
		}
		if !valid {
			continue
		}

		seen[r.Kind][district] = struct{}{}
		snap.Sections[r.Kind] = append(snap.Sections[r.Kind], row)
	}

	c.logger.Info("Cleaned %d → %d rows (dropped %d)", len(raw), snap.Len(), len(raw)-snap.Len())
	return snap
}

// parseNumber extracts the first number from a cell. Empty cells and
// placeholders such as "-" or "--" read as zero.
func parseNumber(raw string) decimal.Decimal {
	match := numberRegexp.FindString(strings.TrimSpace(raw))
	match = strings.ReplaceAll(match, ",", "")
	if match == "" || match == "-" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return v
}
