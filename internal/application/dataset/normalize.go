package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/fooddemand/api/internal/domain"
)

// Accepted input date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// parseDay converts a raw date cell into an ISO day key (YYYY-MM-DD).
func parseDay(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func parseNumber(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return f, err == nil
}

// NormalizeRows converts header-keyed raw rows into clean dataset rows.
// Rows with an unparseable date, a blank item name, or a missing/negative
// quantity are dropped; a negative or unparseable revenue becomes nil rather
// than dropping the row.
func NormalizeRows(rows []map[string]string, mapping domain.ColumnMapping) []domain.DatasetRow {
	out := make([]domain.DatasetRow, 0, len(rows))
	for _, row := range rows {
		day, ok := parseDay(row[mapping.Date])
		if !ok {
			continue
		}
		item := strings.TrimSpace(row[mapping.ItemName])
		if item == "" {
			continue
		}
		qty, ok := parseNumber(row[mapping.Quantity])
		if !ok || qty < 0 {
			continue
		}

		var revenue *float64
		if mapping.Revenue != "" {
			if rev, ok := parseNumber(row[mapping.Revenue]); ok && rev >= 0 {
				revenue = &rev
			}
		}
		out = append(out, domain.DatasetRow{
			Date:     day,
			ItemName: item,
			Quantity: qty,
			Revenue:  revenue,
		})
	}
	return out
}
