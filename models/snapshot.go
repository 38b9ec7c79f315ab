package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow holds the cell text of one scraped table row, unprocessed.
// Cells[0] is the district name followed by the eight numeric cells.
type RawRow struct {
	Kind      Kind
	Cells     []string
	ScrapedAt time.Time
}

// SnapshotRow is a cleaned district row of a scraped section. Published
// areas carry decimals, so values are kept exact.
type SnapshotRow struct {
	District District
	Values   [FieldCount]decimal.Decimal
}

// Snapshot is the published statistics for one day, grouped by kind.
type Snapshot struct {
	Date     time.Time
	Sections map[Kind][]SnapshotRow
}

// NewSnapshot creates an empty snapshot for the given day.
func NewSnapshot(date time.Time) *Snapshot {
	return &Snapshot{Date: date, Sections: make(map[Kind][]SnapshotRow)}
}

// Kinds returns the kinds present in the snapshot in output order.
func (s *Snapshot) Kinds() []Kind {
	var out []Kind
	for _, k := range AllKinds() {
		if len(s.Sections[k]) > 0 {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the total number of rows over all sections.
func (s *Snapshot) Len() int {
	n := 0
	for _, rows := range s.Sections {
		n += len(rows)
	}
	return n
}

// InsightReport summarises a year of monthly rows for console output.
type InsightReport struct {
	Year              int
	Months            int
	YearlySigned      Metrics
	AvgForSale        map[Category]float64
	AvgUnsold         map[Category]float64
	TopSigned         []DistrictTotal
	BusiestMonth      Month
	BusiestMonthUnits int64
}

// DistrictTotal pairs a district with a total.
type DistrictTotal struct {
	District District
	Total    int64
}
