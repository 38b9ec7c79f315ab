package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"housing-stats/models"
	"housing-stats/utils"
)

type fakeSheets struct {
	mu      sync.Mutex
	added   []string
	appends map[string][][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"For Sale"}}]}`))
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, q := range req.Requests {
			if q.AddSheet != nil {
				f.added = append(f.added, q.AddSheet.Properties.Title)
			}
		}
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(r.URL.Path, ":append"):
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		rng := strings.TrimSuffix(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], ":append")
		f.appends[rng] = vr.Values
		_, _ = w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func TestSheetsMirror_WriteSnapshot(t *testing.T) {
	fake := &fakeSheets{appends: make(map[string][][]interface{})}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	m, err := NewSheetsMirror(ctx, "sheet-id", utils.Discard(),
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	batch := uuid.New()
	require.NoError(t, m.WriteSnapshot(ctx, sampleSnapshot(), batch))

	assert.Equal(t, []string{"Signed"}, fake.added)

	forSale := fake.appends["For Sale!A1"]
	require.Len(t, forSale, 2)
	assert.Equal(t, "2025-03-14", forSale[0][0])
	assert.Equal(t, "Yuexiu", forSale[0][1])
	assert.Equal(t, batch.String(), forSale[0][len(forSale[0])-1])

	signed := fake.appends["Signed!A1"]
	require.Len(t, signed, 2)
	assert.Equal(t, "data_date", signed[0][0])
	assert.Equal(t, "Panyu", signed[1][1])
	assert.EqualValues(t, 37, signed[1][2])
}

func TestNewSheetsMirror_MissingID(t *testing.T) {
	_, err := NewSheetsMirror(context.Background(), "", utils.Discard())
	assert.ErrorIs(t, err, models.ErrExportFailed)
}
