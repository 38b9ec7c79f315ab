package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"housing-stats/models"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// SeedTable holds the baseline inventory for the two stock kinds.
type SeedTable struct {
	values [2][models.DistrictCount]models.Metrics
}

// NewSeedTable validates the given values and builds a SeedTable. Both stock
// kinds must be present with every district and no negative field.
func NewSeedTable(values map[models.Kind]map[models.District]models.Metrics) (*SeedTable, error) {
	st := &SeedTable{}
	for kind := range values {
		if !kind.IsStock() {
			return nil, fmt.Errorf("%w: kind %s cannot be seeded", models.ErrInvalidSeed, kind)
		}
	}
	for _, kind := range []models.Kind{models.ForSale, models.Unsold} {
		rows, ok := values[kind]
		if !ok {
			return nil, fmt.Errorf("%w: missing kind %s", models.ErrInvalidSeed, kind)
		}
		for _, d := range models.AllDistricts() {
			m, ok := rows[d]
			if !ok {
				return nil, fmt.Errorf("%w: %s has no row for %s", models.ErrInvalidSeed, kind, d)
			}
			for i, v := range m {
				if v < 0 {
					return nil, fmt.Errorf("%w: %s/%s %s is negative (%d)",
						models.ErrInvalidSeed, kind, d, models.FieldColumns[i], v)
				}
			}
			st.values[kind][d] = m
		}
		for d := range rows {
			if !d.Valid() {
				return nil, fmt.Errorf("%w: %s has invalid district %d", models.ErrInvalidSeed, kind, int(d))
			}
		}
	}
	return st, nil
}

// Value returns the seed vector for a stock kind and district.
func (s *SeedTable) Value(kind models.Kind, d models.District) models.Metrics {
	if !kind.IsStock() {
		return models.Metrics{}
	}
	return s.values[kind][d]
}

// DefaultSeedTable returns the embedded Guangzhou baseline.
func DefaultSeedTable() (*SeedTable, error) {
	return ParseSeedTable(defaultSeedYAML)
}

// LoadSeedTable reads a seed file from disk. An empty path loads the default.
func LoadSeedTable(path string) (*SeedTable, error) {
	if path == "" {
		return DefaultSeedTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", models.ErrInvalidSeed, path, err)
	}
	return ParseSeedTable(data)
}

// ParseSeedTable decodes a YAML document mapping kind name -> district name ->
// eight field values. Native and display names are both accepted.
func ParseSeedTable(data []byte) (*SeedTable, error) {
	var doc map[string]map[string][]int64
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", models.ErrInvalidSeed, err)
	}

	values := make(map[models.Kind]map[models.District]models.Metrics, len(doc))
	for kindName, rows := range doc {
		kind, err := models.ParseKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInvalidSeed, err)
		}
		if _, dup := values[kind]; dup {
			return nil, fmt.Errorf("%w: kind %s given twice", models.ErrInvalidSeed, kind)
		}
		byDistrict := make(map[models.District]models.Metrics, len(rows))
		for name, fields := range rows {
			d, err := models.ParseDistrict(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrInvalidSeed, err)
			}
			if _, dup := byDistrict[d]; dup {
				return nil, fmt.Errorf("%w: %s given twice under %s", models.ErrInvalidSeed, d, kind)
			}
			if len(fields) != models.FieldCount {
				return nil, fmt.Errorf("%w: %s/%s has %d fields, want %d",
					models.ErrInvalidSeed, kind, d, len(fields), models.FieldCount)
			}
			var m models.Metrics
			copy(m[:], fields)
			byDistrict[d] = m
		}
		values[kind] = byDistrict
	}
	return NewSeedTable(values)
}
