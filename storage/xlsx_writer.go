package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"housing-stats/models"
)

// WorkbookPath returns the workbook file name for a scrape date.
func WorkbookPath(dir string, snap *models.Snapshot) string {
	return filepath.Join(dir, fmt.Sprintf("guangzhou_housing_data_%s.xlsx", snap.Date.Format("20060102")))
}

// WriteWorkbook saves the snapshot as an .xlsx file with one sheet per kind,
// named and headed the way the source site prints them.
func WriteWorkbook(path string, snap *models.Snapshot) error {
	kinds := snap.Kinds()
	if len(kinds) == 0 {
		return fmt.Errorf("%w: xlsx: snapshot for %s is empty", models.ErrExportFailed, snap.Date.Format("2006-01-02"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: xlsx: create output dir: %v", models.ErrExportFailed, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(models.NativeColumns))
	for i, h := range models.NativeColumns {
		header[i] = h
	}

	for i, kind := range kinds {
		sheet := kind.Native()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("%w: xlsx: rename sheet: %v", models.ErrExportFailed, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("%w: xlsx: add sheet %s: %v", models.ErrExportFailed, sheet, err)
		}

		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("%w: xlsx: header: %v", models.ErrExportFailed, err)
		}
		for r, row := range snap.Sections[kind] {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return fmt.Errorf("%w: xlsx: %v", models.ErrExportFailed, err)
			}
			values := make([]interface{}, 0, models.FieldCount+1)
			values = append(values, row.District.Native())
			for _, v := range row.Values {
				values = append(values, v.InexactFloat64())
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("%w: xlsx: row %d: %v", models.ErrExportFailed, r+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: xlsx: cannot write %q, close it if it is open in a spreadsheet application: %v",
				models.ErrExportFailed, path, err)
		}
		return fmt.Errorf("%w: xlsx: save %q: %v", models.ErrExportFailed, path, err)
	}
	return nil
}
