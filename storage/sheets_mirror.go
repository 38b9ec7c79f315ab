package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"housing-stats/models"
	"housing-stats/utils"
)

// SheetsMirror appends scraped snapshots to a Google spreadsheet, one tab per
// kind. Tabs are created with a header row on first use.
type SheetsMirror struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *utils.Logger
}

var _ SnapshotWriter = (*SheetsMirror)(nil)

// NewSheetsMirror creates a mirror for spreadsheetID. Credentials come from
// opts, e.g. option.WithCredentialsFile, or from application default credentials.
func NewSheetsMirror(ctx context.Context, spreadsheetID string, logger *utils.Logger, opts ...option.ClientOption) (*SheetsMirror, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: sheets: missing spreadsheet id", models.ErrExportFailed)
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheet.SpreadsheetsScope)}, opts...)
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets: service: %v", models.ErrExportFailed, err)
	}
	return &SheetsMirror{svc: svc, spreadsheetID: spreadsheetID, logger: logger.WithComponent("sheets")}, nil
}

// WriteSnapshot appends the snapshot rows to each kind's tab. The batch id is
// written in the last column so a run can be traced back to the database.
func (m *SheetsMirror) WriteSnapshot(ctx context.Context, snap *models.Snapshot, batch uuid.UUID) error {
	existing, err := m.tabs(ctx)
	if err != nil {
		return err
	}

	for _, kind := range snap.Kinds() {
		tab := kind.String()
		var values [][]interface{}
		if !existing[tab] {
			if err := m.addTab(ctx, tab); err != nil {
				return err
			}
			values = append(values, sheetHeader())
		}
		values = append(values, snapshotValues(snap, kind, batch)...)

		_, err := m.svc.Spreadsheets.Values.Append(m.spreadsheetID, tab+"!A1", &gsheet.ValueRange{Values: values}).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("%w: sheets: append %s: %v", models.ErrExportFailed, tab, err)
		}
		m.logger.Info("Appended %d rows to tab %q", len(values), tab)
	}
	return nil
}

func (m *SheetsMirror) tabs(ctx context.Context) (map[string]bool, error) {
	ss, err := m.svc.Spreadsheets.Get(m.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: sheets: get spreadsheet: %v", models.ErrExportFailed, err)
	}
	out := make(map[string]bool, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			out[sh.Properties.Title] = true
		}
	}
	return out, nil
}

func (m *SheetsMirror) addTab(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := m.svc.Spreadsheets.BatchUpdate(m.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: sheets: add tab %s: %v", models.ErrExportFailed, title, err)
	}
	m.logger.Debug("Created tab %q", title)
	return nil
}

func sheetHeader() []interface{} {
	row := []interface{}{"data_date", "region"}
	for _, c := range models.FieldColumns {
		row = append(row, c)
	}
	return append(row, "batch_id")
}

func snapshotValues(snap *models.Snapshot, kind models.Kind, batch uuid.UUID) [][]interface{} {
	date := snap.Date.Format("2006-01-02")
	out := make([][]interface{}, 0, len(snap.Sections[kind]))
	for _, r := range snap.Sections[kind] {
		row := []interface{}{date, r.District.String()}
		for _, v := range r.Values {
			row = append(row, v.InexactFloat64())
		}
		out = append(out, append(row, batch.String()))
	}
	return out
}
