package dataset

import (
	"math"
	"sort"

	"github.com/fooddemand/api/internal/domain"
)

const (
	topItemLimit  = 6
	prepItemLimit = 5
	prepWindow    = 7
	prepBuffer    = 1.05
)

// Summarize aggregates normalized rows into the chart-feeding summary.
// Returns nil for an empty dataset.
func Summarize(rows []domain.DatasetRow) *domain.DatasetSummary {
	if len(rows) == 0 {
		return nil
	}

	daily := map[string]float64{}
	dailyRevenue := map[string]float64{}
	itemTotals := map[string]float64{}
	itemByDate := map[string]map[string]float64{}
	revenueKnown := true

	for _, row := range rows {
		daily[row.Date] += row.Quantity
		if row.Revenue == nil {
			revenueKnown = false
		} else {
			dailyRevenue[row.Date] += *row.Revenue
		}
		itemTotals[row.ItemName] += row.Quantity
		byDate := itemByDate[row.ItemName]
		if byDate == nil {
			byDate = map[string]float64{}
			itemByDate[row.ItemName] = byDate
		}
		byDate[row.Date] += row.Quantity
	}

	series := make([]domain.DailyPoint, 0, len(daily))
	for date, demand := range daily {
		series = append(series, domain.DailyPoint{
			Date:    date,
			Demand:  demand,
			Revenue: dailyRevenue[date],
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	var totalDemand float64
	for _, p := range series {
		totalDemand += p.Demand
	}
	avgDaily := totalDemand / float64(len(series))

	var variance float64
	for _, p := range series {
		variance += (p.Demand - avgDaily) * (p.Demand - avgDaily)
	}
	variance /= float64(len(series))
	volatility := 0.0
	if avgDaily > 0 {
		volatility = math.Sqrt(variance) / avgDaily * 100
	}

	var totalRevenue *float64
	if revenueKnown {
		var sum float64
		for _, p := range series {
			sum += p.Revenue
		}
		totalRevenue = &sum
	}

	topItems := make([]domain.ItemTotal, 0, len(itemTotals))
	for item, qty := range itemTotals {
		topItems = append(topItems, domain.ItemTotal{ItemName: item, Quantity: qty})
	}
	sort.Slice(topItems, func(i, j int) bool {
		if topItems[i].Quantity != topItems[j].Quantity {
			return topItems[i].Quantity > topItems[j].Quantity
		}
		return topItems[i].ItemName < topItems[j].ItemName
	})
	if len(topItems) > topItemLimit {
		topItems = topItems[:topItemLimit]
	}

	confidence := int(math.Round(100 - volatility/2))
	if confidence > 95 {
		confidence = 95
	}
	if confidence < 65 {
		confidence = 65
	}

	prepCount := len(topItems)
	if prepCount > prepItemLimit {
		prepCount = prepItemLimit
	}
	preps := make([]domain.PrepRecommendation, 0, prepCount)
	for _, item := range topItems[:prepCount] {
		byDate := itemByDate[item.ItemName]
		perDay := make([]float64, len(series))
		for i, p := range series {
			perDay[i] = byDate[p.Date]
		}
		window := perDay
		if len(window) > prepWindow {
			window = window[len(window)-prepWindow:]
		}
		var sum float64
		for _, v := range window {
			sum += v
		}
		recentAvg := sum / float64(len(window))

		preps = append(preps, domain.PrepRecommendation{
			Item:            item.ItemName,
			HistoricalTotal: item.Quantity,
			SuggestedPrep:   int(math.Ceil(recentAvg * prepBuffer)),
			Confidence:      confidence,
		})
	}

	return &domain.DatasetSummary{
		TotalRows:           len(rows),
		TotalDemand:         totalDemand,
		TotalRevenue:        totalRevenue,
		DataDays:            len(series),
		AvgDailyDemand:      avgDaily,
		Volatility:          volatility,
		DistinctItems:       len(itemTotals),
		DailySeries:         series,
		TopItems:            topItems,
		PrepRecommendations: preps,
	}
}
