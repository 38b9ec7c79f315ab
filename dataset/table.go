package dataset

import (
	"fmt"
	"time"

	"housing-stats/models"
)

// DailyTable is the in-memory daily dataset: one record per (date, district,
// kind), stored contiguously and indexed by position.
type DailyTable struct {
	dates   []time.Time
	records []models.DailyRecord
}

// NewDailyTable allocates zeroed records for every (date, district, kind).
// Dates must be consecutive days in ascending order.
func NewDailyTable(dates []time.Time) (*DailyTable, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("dataset: empty date range")
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].Equal(dates[i-1].AddDate(0, 0, 1)) {
			return nil, fmt.Errorf("dataset: dates not contiguous at %s", dates[i].Format("2006-01-02"))
		}
	}

	t := &DailyTable{
		dates:   dates,
		records: make([]models.DailyRecord, len(dates)*models.DistrictCount*models.KindCount),
	}
	for day, date := range dates {
		for _, d := range models.AllDistricts() {
			for _, k := range models.AllKinds() {
				r := &t.records[t.index(day, d, k)]
				r.Date = date
				r.District = d
				r.Kind = k
			}
		}
	}
	return t, nil
}

// YearDates returns every day of the calendar year.
func YearDates(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	var out []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (t *DailyTable) index(day int, d models.District, k models.Kind) int {
	return (day*models.DistrictCount+int(d))*models.KindCount + int(k)
}

// At returns the record for the given day index, district and kind.
func (t *DailyTable) At(day int, d models.District, k models.Kind) *models.DailyRecord {
	return &t.records[t.index(day, d, k)]
}

func (t *DailyTable) Days() int { return len(t.dates) }
func (t *DailyTable) Date(day int) time.Time { return t.dates[day] }
func (t *DailyTable) Len() int { return len(t.records) }

// Records exposes the rows in (date, district, kind) order.
func (t *DailyTable) Records() []models.DailyRecord { return t.records }

// MonthSpan is a run of consecutive day indices belonging to one month.
type MonthSpan struct {
	Month models.Month
	First int
	Last  int // inclusive
}

func (s MonthSpan) Len() int { return s.Last - s.First + 1 }

// Months splits the table's days into calendar months, in order.
func (t *DailyTable) Months() []MonthSpan {
	var spans []MonthSpan
	for day, date := range t.dates {
		m := models.MonthOf(date)
		if n := len(spans); n > 0 && spans[n-1].Month == m {
			spans[n-1].Last = day
			continue
		}
		spans = append(spans, MonthSpan{Month: m, First: day, Last: day})
	}
	return spans
}

// TableFromRecords rebuilds a DailyTable from rows read back from storage.
// Every (date, district, kind) in the covered range must be present exactly once.
func TableFromRecords(records []models.DailyRecord) (*DailyTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: no records")
	}
	first, last := records[0].Date, records[0].Date
	for _, r := range records {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	t, err := NewDailyTable(dates)
	if err != nil {
		return nil, err
	}

	seen := make([]bool, t.Len())
	for _, r := range records {
		day := int(r.Date.Sub(first).Hours() / 24)
		if !r.District.Valid() || !r.Kind.Valid() {
			return nil, fmt.Errorf("dataset: bad key on %s", r.Date.Format("2006-01-02"))
		}
		i := t.index(day, r.District, r.Kind)
		if seen[i] {
			return nil, fmt.Errorf("dataset: duplicate row %s/%s/%s",
				r.Date.Format("2006-01-02"), r.District, r.Kind)
		}
		seen[i] = true
		t.records[i].Values = r.Values
	}
	for i, ok := range seen {
		if !ok {
			r := t.records[i]
			return nil, fmt.Errorf("dataset: missing row %s/%s/%s",
				r.Date.Format("2006-01-02"), r.District, r.Kind)
		}
	}
	return t, nil
}
