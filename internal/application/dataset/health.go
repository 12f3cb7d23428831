package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fooddemand/api/internal/domain"
)

// Issue weights. An issue with weight >= 16 affecting more than 5% of rows
// blocks the import; everything else is a warning.
const (
	weightMissingRequired  = 18
	weightInvalidDates     = 18
	weightDuplicates       = 10
	weightNegativeQuantity = 16
	weightNegativeRevenue  = 8
	weightOutliers         = 6

	blockingWeight = 16
	blockingRatio  = 0.05

	outlierMinSamples = 6
)

type healthIssue struct {
	weight  int
	ratio   float64
	message string
}

// EvaluateHealth grades a parsed upload in a single pass plus an IQR outlier
// scan over the quantity column.
func EvaluateHealth(rows []map[string]string, mapping domain.ColumnMapping) domain.HealthReport {
	if len(rows) == 0 {
		return domain.HealthReport{
			Score:          0,
			BlockingErrors: []string{"No data rows available."},
			Warnings:       []string{},
		}
	}

	report := domain.HealthReport{
		BlockingErrors: []string{},
		Warnings:       []string{},
	}
	var missingFields []string
	if mapping.Date == "" {
		missingFields = append(missingFields, "date")
	}
	if mapping.ItemName == "" {
		missingFields = append(missingFields, "itemName")
	}
	if mapping.Quantity == "" {
		missingFields = append(missingFields, "quantity")
	}
	if len(missingFields) > 0 {
		report.BlockingErrors = append(report.BlockingErrors,
			"Map required columns: "+strings.Join(missingFields, ", "))
	}

	stats := domain.HealthStats{TotalRows: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	var quantities []float64

	for _, row := range rows {
		dateCell := strings.TrimSpace(row[mapping.Date])
		itemCell := strings.TrimSpace(row[mapping.ItemName])
		qtyCell := strings.TrimSpace(row[mapping.Quantity])
		revCell := strings.TrimSpace(row[mapping.Revenue])

		if dateCell == "" || itemCell == "" || qtyCell == "" {
			stats.MissingRequired++
		}
		if mapping.Date != "" {
			if _, ok := parseDay(dateCell); !ok {
				stats.InvalidDates++
			}
		}
		if mapping.Quantity != "" && qtyCell != "" {
			if qty, ok := parseNumber(qtyCell); ok {
				quantities = append(quantities, qty)
				if qty < 0 {
					stats.NegativeQuantity++
				}
			}
		}
		if mapping.Revenue != "" && revCell != "" {
			if rev, ok := parseNumber(revCell); ok && rev < 0 {
				stats.NegativeRevenue++
			}
		}

		key := dateCell + "|" + itemCell + "|" + qtyCell + "|" + revCell
		if key != "|||" {
			if _, dup := seen[key]; dup {
				stats.Duplicates++
			} else {
				seen[key] = struct{}{}
			}
		}
	}

	if len(quantities) >= outlierMinSamples {
		sort.Float64s(quantities)
		q1 := quantile(quantities, 0.25)
		q3 := quantile(quantities, 0.75)
		upper := q3 + 1.5*(q3-q1)
		for _, q := range quantities {
			if q > upper {
				stats.Outliers++
			}
		}
	}
	report.Stats = stats

	total := float64(len(rows))
	var issues []healthIssue
	if stats.MissingRequired > 0 {
		issues = append(issues, healthIssue{weightMissingRequired, float64(stats.MissingRequired) / total,
			fmt.Sprintf("%d rows missing required values.", stats.MissingRequired)})
	}
	if stats.InvalidDates > 0 {
		issues = append(issues, healthIssue{weightInvalidDates, float64(stats.InvalidDates) / total,
			fmt.Sprintf("%d rows contain invalid dates.", stats.InvalidDates)})
	}
	if stats.Duplicates > 0 {
		issues = append(issues, healthIssue{weightDuplicates, float64(stats.Duplicates) / total,
			fmt.Sprintf("%d duplicate rows detected.", stats.Duplicates)})
	}
	if stats.NegativeQuantity > 0 {
		issues = append(issues, healthIssue{weightNegativeQuantity, float64(stats.NegativeQuantity) / total,
			fmt.Sprintf("%d rows have negative quantity.", stats.NegativeQuantity)})
	}
	if stats.NegativeRevenue > 0 {
		issues = append(issues, healthIssue{weightNegativeRevenue, float64(stats.NegativeRevenue) / total,
			fmt.Sprintf("%d rows have negative revenue.", stats.NegativeRevenue)})
	}
	if stats.Outliers > 0 {
		issues = append(issues, healthIssue{weightOutliers, float64(stats.Outliers) / total,
			fmt.Sprintf("%d potential quantity outliers found.", stats.Outliers)})
	}

	score := 100
	for _, issue := range issues {
		if issue.weight >= blockingWeight && issue.ratio > blockingRatio {
			report.BlockingErrors = append(report.BlockingErrors, issue.message)
		} else {
			report.Warnings = append(report.Warnings, issue.message)
		}
		score -= int(math.Round(float64(issue.weight) * math.Min(issue.ratio*5, 1)))
	}
	if score < 0 {
		score = 0
	}
	report.Score = score
	return report
}

// quantile interpolates linearly between the two nearest ranks of a sorted
// slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := float64(len(sorted)-1) * p
	base := int(math.Floor(pos))
	rest := pos - float64(base)
	lower := sorted[base]
	upper := lower
	if base+1 < len(sorted) {
		upper = sorted[base+1]
	}
	return lower + rest*(upper-lower)
}
