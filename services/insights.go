package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"housing-stats/models"
	"housing-stats/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger.WithComponent("insights")}
}

// Generate summarises a year of monthly rows: yearly signed totals, average
// stock per category, the top districts by signed residential units and the
// busiest month.
func (s *InsightService) Generate(year int, rows []models.MonthlyRecord) *models.InsightReport {
	report := &models.InsightReport{
		Year:       year,
		AvgForSale: make(map[models.Category]float64),
		AvgUnsold:  make(map[models.Category]float64),
	}
	if len(rows) == 0 {
		return report
	}

	months := make(map[models.Month]int64)
	byDistrict := make(map[models.District]int64)
	stockRows := make(map[models.Kind]int)

	for _, r := range rows {
		if r.Month.Year != year {
			continue
		}
		switch r.Kind {
		case models.Signed:
			for i, v := range r.Values {
				report.YearlySigned[i] += v.IntPart()
			}
			res := r.Values[models.Residential.UnitsIndex()].IntPart()
			byDistrict[r.District] += res
			for _, c := range models.AllCategories() {
				months[r.Month] += r.Values[c.UnitsIndex()].IntPart()
			}
		case models.ForSale, models.Unsold:
			stockRows[r.Kind]++
			target := report.AvgForSale
			if r.Kind == models.Unsold {
				target = report.AvgUnsold
			}
			for _, c := range models.AllCategories() {
				f, _ := r.Values[c.UnitsIndex()].Float64()
				target[c] += f
			}
		}
	}

	// Mean of the monthly averages over every district and month.
	for kind, n := range stockRows {
		target := report.AvgForSale
		if kind == models.Unsold {
			target = report.AvgUnsold
		}
		for c := range target {
			target[c] = round2(target[c] / float64(n))
		}
	}
	report.Months = len(months)

	for d, total := range byDistrict {
		report.TopSigned = append(report.TopSigned, models.DistrictTotal{District: d, Total: total})
	}
	sort.Slice(report.TopSigned, func(i, j int) bool {
		a, b := report.TopSigned[i], report.TopSigned[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.District < b.District
	})
	if len(report.TopSigned) > 5 {
		report.TopSigned = report.TopSigned[:5]
	}

	for m, units := range months {
		if units > report.BusiestMonthUnits ||
			(units == report.BusiestMonthUnits && m.Month < report.BusiestMonth.Month) {
			report.BusiestMonth = m
			report.BusiestMonthUnits = units
		}
	}

	s.logger.Debug("Report covers %d months, %d districts with signed units", report.Months, len(byDistrict))
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 GUANGZHOU NEW HOUSING %d\033[0m\n", r.Year)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Signed over the year (%d months)\033[0m\n", r.Months)
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range models.AllCategories() {
		fmt.Fprintf(w, "  %-12s : \033[1m%d\033[0m units, \033[1m%d\033[0m m²\n",
			c, r.YearlySigned.Units(c), r.YearlySigned.Area(c))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Average standing stock per district (units)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range models.AllCategories() {
		fmt.Fprintf(w, "  %-12s : for sale \033[1;32m%.2f\033[0m | unsold \033[1;32m%.2f\033[0m\n",
			c, r.AvgForSale[c], r.AvgUnsold[c])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top districts by signed residential units\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopSigned) == 0 {
		fmt.Fprintf(w, "  No signed units recorded\n")
	} else {
		var top int64 = 1
		if r.TopSigned[0].Total > 0 {
			top = r.TopSigned[0].Total
		}
		for i, dt := range r.TopSigned {
			bar := strings.Repeat("█", int(dt.Total*30/top))
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-10s %s (%d)\n", i+1, dt.District, bar, dt.Total)
		}
	}
	fmt.Fprintln(w)

	if r.BusiestMonthUnits > 0 {
		fmt.Fprintf(w, "\033[1;33m  Busiest month\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s : \033[1;31m%d\033[0m units signed\n", r.BusiestMonth, r.BusiestMonthUnits)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
