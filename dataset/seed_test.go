package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housing-stats/models"
)

func TestDefaultSeedTable(t *testing.T) {
	st, err := DefaultSeedTable()
	require.NoError(t, err)

	yuexiu := st.Value(models.ForSale, models.Yuexiu)
	assert.Equal(t, int64(522), yuexiu.Units(models.Residential))
	assert.Equal(t, int64(35553), yuexiu.Area(models.Parking))

	zengcheng := st.Value(models.Unsold, models.Zengcheng)
	assert.Equal(t, models.Metrics{47805, 4858689, 8948, 1399254, 6800, 733749, 222358, 3119280}, zengcheng)

	assert.Equal(t, models.Metrics{}, st.Value(models.Signed, models.Yuexiu))
}

func TestParseSeedTableAcceptsDisplayNames(t *testing.T) {
	doc := seedDoc("For Sale", "Unsold", "Yuexiu", "1, 2, 3, 4, 5, 6, 7, 8")
	st, err := ParseSeedTable([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, models.Metrics{1, 2, 3, 4, 5, 6, 7, 8}, st.Value(models.Unsold, models.Yuexiu))
}

func TestParseSeedTableRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative value", seedDoc("可售信息", "未售信息", "越秀区", "1, 2, 3, -4, 5, 6, 7, 8")},
		{"short row", seedDoc("可售信息", "未售信息", "越秀区", "1, 2, 3")},
		{"unknown kind", seedDoc("可售信息", "库存", "越秀区", "1, 2, 3, 4, 5, 6, 7, 8")},
		{"signed kind", seedDoc("可售信息", "签约信息", "越秀区", "1, 2, 3, 4, 5, 6, 7, 8")},
		{"missing kind", "可售信息:\n  越秀区: [1, 2, 3, 4, 5, 6, 7, 8]\n"},
		{"unknown district", "可售信息:\n  月球区: [1, 2, 3, 4, 5, 6, 7, 8]\n"},
		{"not yaml", "可售信息: [oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeedTable([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidSeed)
		})
	}
}

func TestNewSeedTableMissingDistrict(t *testing.T) {
	values := fullSeed(10)
	delete(values[models.Unsold], models.Huadu)

	_, err := NewSeedTable(values)
	require.ErrorIs(t, err, models.ErrInvalidSeed)
	assert.Contains(t, err.Error(), "Huadu")
}

func TestLoadSeedTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc("可售信息", "未售信息", "天河区", "9, 9, 9, 9, 9, 9, 9, 9")), 0o644))

	st, err := LoadSeedTable(path)
	require.NoError(t, err)
	assert.Equal(t, int64(9), st.Value(models.Unsold, models.Tianhe).Units(models.Office))
	assert.Equal(t, int64(1), st.Value(models.ForSale, models.Tianhe).Units(models.Office))

	_, err = LoadSeedTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// seedDoc renders a complete two-kind seed document where every district
// carries ones, except `district` which carries `row` under the second kind.
func seedDoc(forSale, unsold, district, row string) string {
	doc := forSale + ":\n"
	for _, d := range models.AllDistricts() {
		doc += "  " + d.Native() + ": [1, 1, 1, 1, 1, 1, 1, 1]\n"
	}
	doc += unsold + ":\n"
	for _, d := range models.AllDistricts() {
		if d.Native() == district || d.String() == district {
			continue
		}
		doc += "  " + d.Native() + ": [1, 1, 1, 1, 1, 1, 1, 1]\n"
	}
	doc += "  " + district + ": [" + row + "]\n"
	return doc
}

func fullSeed(v int64) map[models.Kind]map[models.District]models.Metrics {
	out := make(map[models.Kind]map[models.District]models.Metrics)
	for _, k := range []models.Kind{models.ForSale, models.Unsold} {
		out[k] = make(map[models.District]models.Metrics)
		for _, d := range models.AllDistricts() {
			var m models.Metrics
			for i := range m {
				m[i] = v
			}
			out[k][d] = m
		}
	}
	return out
}
