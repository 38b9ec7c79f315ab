package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"housing-stats/models"
)

// CSVWriter writes table rows to a UTF-8 CSV file with a byte-order mark, so
// spreadsheet applications pick the right encoding for the district names.
type CSVWriter struct {
	path   string
	file   *os.File
	bom    *transform.Writer
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: csv: create output dir: %v", models.ErrExportFailed, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: csv: create file %q: %v", models.ErrExportFailed, path, err)
	}

	bom := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: csv: write header: %v", models.ErrExportFailed, err)
	}

	return &CSVWriter{path: path, file: f, bom: bom, writer: w}, nil
}

// DailyHeader is the column set of the daily export.
func DailyHeader() []string {
	return append([]string{"data_date", "region", "data_type"}, models.FieldColumns[:]...)
}

// MonthlyHeader is the column set of the monthly summary export.
func MonthlyHeader() []string {
	return append([]string{"month", "region", "data_type"}, models.FieldColumns[:]...)
}

// WriteDaily appends daily records in the order given.
func (c *CSVWriter) WriteDaily(records []models.DailyRecord) error {
	row := make([]string, 0, models.FieldCount+3)
	for _, r := range records {
		row = append(row[:0], r.Date.Format("2006-01-02"), r.District.String(), r.Kind.String())
		for _, v := range r.Values {
			row = append(row, strconv.FormatInt(v, 10))
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("%w: csv: write row: %v", models.ErrExportFailed, err)
		}
	}
	c.writer.Flush()
	return c.flushErr()
}

// WriteMonthly appends monthly summary rows in the order given.
func (c *CSVWriter) WriteMonthly(records []models.MonthlyRecord) error {
	row := make([]string, 0, models.FieldCount+3)
	for _, r := range records {
		row = append(row[:0], r.Month.String(), r.District.String(), r.Kind.String())
		for _, v := range r.Values {
			row = append(row, v.String())
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("%w: csv: write row: %v", models.ErrExportFailed, err)
		}
	}
	c.writer.Flush()
	return c.flushErr()
}

func (c *CSVWriter) flushErr() error {
	if err := c.writer.Error(); err != nil {
		return fmt.Errorf("%w: csv: flush %q: %v", models.ErrExportFailed, c.path, err)
	}
	return nil
}

// Close flushes the encoder and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if err := c.bom.Close(); err != nil {
		_ = c.file.Close()
		return fmt.Errorf("%w: csv: close %q: %v", models.ErrExportFailed, c.path, err)
	}
	return c.file.Close()
}

// ExportDataset writes the daily and monthly files for a generated year into
// dir and returns their paths.
func ExportDataset(dir string, year int, daily []models.DailyRecord, monthly []models.MonthlyRecord) (string, string, error) {
	dailyPath := filepath.Join(dir, fmt.Sprintf("guangzhou_housing_%d_complete.csv", year))
	monthlyPath := filepath.Join(dir, fmt.Sprintf("guangzhou_housing_%d_monthly_summary.csv", year))

	dw, err := NewCSVWriter(dailyPath, DailyHeader())
	if err != nil {
		return "", "", err
	}
	if err := dw.WriteDaily(daily); err != nil {
		_ = dw.Close()
		return "", "", err
	}
	if err := dw.Close(); err != nil {
		return "", "", err
	}

	mw, err := NewCSVWriter(monthlyPath, MonthlyHeader())
	if err != nil {
		return "", "", err
	}
	if err := mw.WriteMonthly(monthly); err != nil {
		_ = mw.Close()
		return "", "", err
	}
	if err := mw.Close(); err != nil {
		return "", "", err
	}
	return dailyPath, monthlyPath, nil
}
