package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a property type. Each category owns a units field and an area field.
type Category int

const (
	Residential Category = iota
	Commercial
	Office
	Parking
)

// CategoryCount and FieldCount describe the shape of a Metrics vector.
const (
	CategoryCount = 4
	FieldCount    = CategoryCount * 2
)

// AllCategories returns the categories in column order.
func AllCategories() []Category { return []Category{Residential, Commercial, Office, Parking} }

func (c Category) UnitsIndex() int { return int(c) * 2 }
func (c Category) AreaIndex() int { return int(c)*2 + 1 }

func (c Category) String() string {
	switch c {
	case Residential:
		return "residential"
	case Commercial:
		return "commercial"
	case Office:
		return "office"
	case Parking:
		return "parking"
	}
	return "unknown"
}

// FieldColumns are the column names of the eight numeric fields, in order.
var FieldColumns = [FieldCount]string{
	"residential_units", "residential_area",
	"commercial_units", "commercial_area",
	"office_units", "office_area",
	"parking_units", "parking_area",
}

// NativeColumns are the headers used by the government site and the workbook export.
var NativeColumns = [FieldCount + 1]string{
	"行政区", "住宅套数", "住宅面积", "商业套数", "商业面积",
	"办公套数", "办公面积", "车位套数", "车位面积",
}

// IsUnitsField reports whether field i holds a unit count.
func IsUnitsField(i int) bool { return i%2 == 0 }

// Metrics holds the eight numeric fields of a record in column order.
type Metrics [FieldCount]int64

func (m Metrics) Units(c Category) int64 { return m[c.UnitsIndex()] }
func (m Metrics) Area(c Category) int64 { return m[c.AreaIndex()] }

// DailyRecord is one (date, district, kind) row of the daily table.
type DailyRecord struct {
	Date     time.Time
	District District
	Kind     Kind
	Values   Metrics
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func MonthOf(t time.Time) Month { return Month{Year: t.Year(), Month: t.Month()} }

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthlyRecord is one (month, district, kind) row of the monthly summary.
// Stock kinds hold daily averages, the signed kind holds monthly totals.
type MonthlyRecord struct {
	Month    Month
	District District
	Kind     Kind
	Values   [FieldCount]decimal.Decimal
}
