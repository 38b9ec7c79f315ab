package gzhousing

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housing-stats/models"
	"housing-stats/utils"
)

// sectionTitles maps the heading row text of each published table to its kind.
var sectionTitles = []struct {
	title string
	kind  models.Kind
}{
	{"每日新建商品房可售信息", models.ForSale},
	{"每日新建商品房未售信息", models.Unsold},
	{"每日新建商品房签约信息", models.Signed},
}

// ParseSections walks every table row of the page in document order. A row
// containing a section title switches the current kind; rows after it are
// kept when they have nine cells and the first names a district.
func ParseSections(r io.Reader, logger *utils.Logger) ([]models.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	now := time.Now()
	current := models.Kind(-1)
	var rows []models.RawRow

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		text := strings.TrimSpace(tr.Text())
		for _, st := range sectionTitles {
			if strings.Contains(text, st.title) {
				current = st.kind
				logger.Debug("Found section %s", st.kind.Native())
				break
			}
		}

		cells := tr.ChildrenFiltered("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if !current.Valid() {
			return
		}
		if isDataRow(cells) {
			rows = append(rows, models.RawRow{Kind: current, Cells: cells, ScrapedAt: now})
		} else if len(cells) > 0 {
			logger.Debug("Skipping %s row with %d cells: %v", current.Native(), len(cells), cells)
		}
	})

	return rows, nil
}

func isDataRow(cells []string) bool {
	return len(cells) == models.FieldCount+1 && strings.HasSuffix(cells[0], "区")
}
