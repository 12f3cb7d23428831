package dataset

import (
	"strings"

	"github.com/fooddemand/api/internal/domain"
)

// AutoMapColumns guesses the column mapping from header keywords. First
// matching header wins per field; unmatched fields stay empty for the caller
// to map manually.
func AutoMapColumns(headers []string) domain.ColumnMapping {
	var m domain.ColumnMapping
	for _, header := range headers {
		value := strings.ToLower(strings.TrimSpace(header))
		if m.Date == "" && (strings.Contains(value, "date") || strings.Contains(value, "day")) {
			m.Date = header
		}
		if m.ItemName == "" && (strings.Contains(value, "item") || strings.Contains(value, "menu") || strings.Contains(value, "product")) {
			m.ItemName = header
		}
		if m.Quantity == "" && (strings.Contains(value, "qty") || strings.Contains(value, "quantity") || strings.Contains(value, "units") || strings.Contains(value, "count")) {
			m.Quantity = header
		}
		if m.Revenue == "" && (strings.Contains(value, "revenue") || strings.Contains(value, "sales") || strings.Contains(value, "amount")) {
			m.Revenue = header
		}
	}
	return m
}
