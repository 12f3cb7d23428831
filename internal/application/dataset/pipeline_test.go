package dataset

import (
	"testing"

	"github.com/fooddemand/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- AutoMapColumns ---

func TestAutoMapColumns_KeywordMatching(t *testing.T) {
	m := AutoMapColumns([]string{"Order Date", "Menu Item", "Qty Sold", "Revenue ($)"})
	assert.Equal(t, "Order Date", m.Date)
	assert.Equal(t, "Menu Item", m.ItemName)
	assert.Equal(t, "Qty Sold", m.Quantity)
	assert.Equal(t, "Revenue ($)", m.Revenue)
}

func TestAutoMapColumns_FirstMatchWins(t *testing.T) {
	m := AutoMapColumns([]string{"date", "delivery_date", "product", "item", "units", "count"})
	assert.Equal(t, "date", m.Date)
	assert.Equal(t, "product", m.ItemName)
	assert.Equal(t, "units", m.Quantity)
}

func TestAutoMapColumns_UnmatchedFieldsStayEmpty(t *testing.T) {
	m := AutoMapColumns([]string{"foo", "bar"})
	assert.Empty(t, m.Date)
	assert.Empty(t, m.ItemName)
	assert.Empty(t, m.Quantity)
	assert.Empty(t, m.Revenue)
}

func TestAutoMapColumns_AlternativeKeywords(t *testing.T) {
	m := AutoMapColumns([]string{"Day", "Product Name", "Units Sold", "Sales Total"})
	assert.Equal(t, "Day", m.Date)
	assert.Equal(t, "Product Name", m.ItemName)
	assert.Equal(t, "Units Sold", m.Quantity)
	assert.Equal(t, "Sales Total", m.Revenue)
}

// --- parseFile ---

func TestParseFile_CSV(t *testing.T) {
	data := []byte("date,item,qty\n2026-01-01,Tacos,10\n2026-01-02,Burrito,5\n")
	headers, rows, err := parseFile("sales.csv", data)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "item", "qty"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tacos", rows[0]["item"])
	assert.Equal(t, "5", rows[1]["qty"])
}

func TestParseFile_BlankHeaderGetsSyntheticName(t *testing.T) {
	data := []byte("date,,qty\n2026-01-01,Tacos,10\n")
	headers, rows, err := parseFile("sales.csv", data)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "column_2", "qty"}, headers)
	assert.Equal(t, "Tacos", rows[0]["column_2"])
}

func TestParseFile_DropsAllBlankRows(t *testing.T) {
	data := []byte("date,item,qty\n2026-01-01,Tacos,10\n,,\n  ,  ,\n")
	_, rows, err := parseFile("sales.csv", data)

	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseFile_RaggedRowsPadded(t *testing.T) {
	data := []byte("date,item,qty\n2026-01-01,Tacos\n")
	_, rows, err := parseFile("sales.csv", data)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["qty"])
}

func TestParseFile_EmptyFile(t *testing.T) {
	_, _, err := parseFile("sales.csv", []byte(""))
	require.Error(t, err)
	assert.Equal(t, MsgNoTabularRows, err.Error())
}

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("a.csv"))
	assert.True(t, SupportedExtension("a.XLSX"))
	assert.True(t, SupportedExtension("a.xls"))
	assert.False(t, SupportedExtension("a.pdf"))
	assert.False(t, SupportedExtension("a"))
}

// --- EvaluateHealth ---

func row(date, item, qty, rev string) map[string]string {
	return map[string]string{"date": date, "item": item, "qty": qty, "rev": rev}
}

var testMapping = domain.ColumnMapping{Date: "date", ItemName: "item", Quantity: "qty", Revenue: "rev"}

func TestEvaluateHealth_EmptyRows(t *testing.T) {
	report := EvaluateHealth(nil, testMapping)
	assert.Equal(t, 0, report.Score)
	assert.Contains(t, report.BlockingErrors, "No data rows available.")
}

func TestEvaluateHealth_MissingRequiredMapping_Blocks(t *testing.T) {
	report := EvaluateHealth([]map[string]string{row("2026-01-01", "Tacos", "10", "")}, domain.ColumnMapping{Date: "date"})
	require.NotEmpty(t, report.BlockingErrors)
	assert.Equal(t, "Map required columns: itemName, quantity", report.BlockingErrors[0])
}

func TestEvaluateHealth_CleanData_FullScore(t *testing.T) {
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", "50"),
		row("2026-01-02", "Tacos", "12", "60"),
		row("2026-01-03", "Burrito", "8", "64"),
	}
	report := EvaluateHealth(rows, testMapping)

	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.BlockingErrors)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, 3, report.Stats.TotalRows)
}

func TestEvaluateHealth_NegativeQuantity_BlocksOverRatio(t *testing.T) {
	// 1 of 3 rows negative: weight 16, ratio 0.33 > 0.05 — blocking.
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", ""),
		row("2026-01-02", "Tacos", "-5", ""),
		row("2026-01-03", "Burrito", "8", ""),
	}
	report := EvaluateHealth(rows, testMapping)

	require.Len(t, report.BlockingErrors, 1)
	assert.Equal(t, "1 rows have negative quantity.", report.BlockingErrors[0])
	assert.Equal(t, 1, report.Stats.NegativeQuantity)
	// 100 - round(16 * min(0.33*5, 1)) = 100 - 16
	assert.Equal(t, 84, report.Score)
}

func TestEvaluateHealth_NegativeRevenue_WarnsOnly(t *testing.T) {
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", "-50"),
		row("2026-01-02", "Tacos", "12", "60"),
	}
	report := EvaluateHealth(rows, testMapping)

	assert.Empty(t, report.BlockingErrors)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "1 rows have negative revenue.", report.Warnings[0])
}

func TestEvaluateHealth_Duplicates(t *testing.T) {
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", "50"),
		row("2026-01-01", "Tacos", "10", "50"),
		row("2026-01-02", "Tacos", "12", "60"),
	}
	report := EvaluateHealth(rows, testMapping)

	assert.Equal(t, 1, report.Stats.Duplicates)
	// Duplicates carry weight 10 — never blocking.
	assert.Empty(t, report.BlockingErrors)
	require.Len(t, report.Warnings, 1)
}

func TestEvaluateHealth_InvalidDates(t *testing.T) {
	rows := []map[string]string{
		row("not-a-date", "Tacos", "10", ""),
		row("2026-01-02", "Tacos", "12", ""),
	}
	report := EvaluateHealth(rows, testMapping)

	assert.Equal(t, 1, report.Stats.InvalidDates)
	require.Len(t, report.BlockingErrors, 1)
	assert.Equal(t, "1 rows contain invalid dates.", report.BlockingErrors[0])
}

func TestEvaluateHealth_OutliersNeedSixSamples(t *testing.T) {
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", ""),
		row("2026-01-02", "Tacos", "11", ""),
		row("2026-01-03", "Tacos", "10", ""),
		row("2026-01-04", "Tacos", "12", ""),
		row("2026-01-05", "Tacos", "500", ""),
	}
	report := EvaluateHealth(rows, testMapping)
	assert.Equal(t, 0, report.Stats.Outliers, "below the sample floor no outlier scan runs")

	rows = append(rows, row("2026-01-06", "Tacos", "11", ""))
	report = EvaluateHealth(rows, testMapping)
	assert.Equal(t, 1, report.Stats.Outliers)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 3.25, quantile(sorted, 0.75), 1e-9)
	assert.InDelta(t, 4, quantile(sorted, 1), 1e-9)
	assert.Equal(t, 0.0, quantile(nil, 0.5))
}

// --- NormalizeRows ---

func TestNormalizeRows_DropsInvalidRows(t *testing.T) {
	rows := []map[string]string{
		row("2026-01-01", "Tacos", "10", "50"),
		row("bad-date", "Tacos", "10", ""),  // dropped: date
		row("2026-01-02", "", "10", ""),     // dropped: item
		row("2026-01-03", "Tacos", "-1", ""), // dropped: negative qty
		row("2026-01-04", "Tacos", "x", ""),  // dropped: unparseable qty
	}
	out := NormalizeRows(rows, testMapping)

	require.Len(t, out, 1)
	assert.Equal(t, "2026-01-01", out[0].Date)
	assert.Equal(t, "Tacos", out[0].ItemName)
	assert.Equal(t, 10.0, out[0].Quantity)
	require.NotNil(t, out[0].Revenue)
	assert.Equal(t, 50.0, *out[0].Revenue)
}

func TestNormalizeRows_NegativeRevenueBecomesNil(t *testing.T) {
	out := NormalizeRows([]map[string]string{row("2026-01-01", "Tacos", "10", "-5")}, testMapping)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Revenue)
}

func TestNormalizeRows_DateFormats(t *testing.T) {
	for _, value := range []string{"2026-01-15", "01/15/2026", "2026/01/15", "Jan 15, 2026", "15 Jan 2026"} {
		out := NormalizeRows([]map[string]string{row(value, "Tacos", "1", "")}, testMapping)
		require.Len(t, out, 1, value)
		assert.Equal(t, "2026-01-15", out[0].Date, value)
	}
}

// --- Summarize ---

func rev(v float64) *float64 { return &v }

func TestSummarize_EmptyDataset(t *testing.T) {
	assert.Nil(t, Summarize(nil))
}

func TestSummarize_Aggregates(t *testing.T) {
	rows := []domain.DatasetRow{
		{Date: "2026-01-01", ItemName: "Tacos", Quantity: 10, Revenue: rev(50)},
		{Date: "2026-01-01", ItemName: "Burrito", Quantity: 5, Revenue: rev(40)},
		{Date: "2026-01-02", ItemName: "Tacos", Quantity: 15, Revenue: rev(75)},
	}
	s := Summarize(rows)

	require.NotNil(t, s)
	assert.Equal(t, 3, s.TotalRows)
	assert.Equal(t, 30.0, s.TotalDemand)
	require.NotNil(t, s.TotalRevenue)
	assert.Equal(t, 165.0, *s.TotalRevenue)
	assert.Equal(t, 2, s.DataDays)
	assert.Equal(t, 15.0, s.AvgDailyDemand)
	assert.Equal(t, 2, s.DistinctItems)

	require.Len(t, s.DailySeries, 2)
	assert.Equal(t, "2026-01-01", s.DailySeries[0].Date)
	assert.Equal(t, 15.0, s.DailySeries[0].Demand)
	assert.Equal(t, 90.0, s.DailySeries[0].Revenue)

	require.NotEmpty(t, s.TopItems)
	assert.Equal(t, "Tacos", s.TopItems[0].ItemName)
	assert.Equal(t, 25.0, s.TopItems[0].Quantity)
}

func TestSummarize_UnknownRevenueWhenAnyRowLacksIt(t *testing.T) {
	rows := []domain.DatasetRow{
		{Date: "2026-01-01", ItemName: "Tacos", Quantity: 10, Revenue: rev(50)},
		{Date: "2026-01-02", ItemName: "Tacos", Quantity: 15},
	}
	s := Summarize(rows)
	assert.Nil(t, s.TotalRevenue)
}

func TestSummarize_TopItemsCappedAtSix(t *testing.T) {
	var rows []domain.DatasetRow
	for _, item := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		rows = append(rows, domain.DatasetRow{Date: "2026-01-01", ItemName: item, Quantity: 1})
	}
	s := Summarize(rows)
	assert.Len(t, s.TopItems, 6)
	assert.Len(t, s.PrepRecommendations, 5)
}

func TestSummarize_PrepRecommendation(t *testing.T) {
	// Constant 10/day over 3 days: recent avg 10, suggested = ceil(10*1.05) = 11.
	rows := []domain.DatasetRow{
		{Date: "2026-01-01", ItemName: "Tacos", Quantity: 10},
		{Date: "2026-01-02", ItemName: "Tacos", Quantity: 10},
		{Date: "2026-01-03", ItemName: "Tacos", Quantity: 10},
	}
	s := Summarize(rows)

	require.Len(t, s.PrepRecommendations, 1)
	p := s.PrepRecommendations[0]
	assert.Equal(t, "Tacos", p.Item)
	assert.Equal(t, 30.0, p.HistoricalTotal)
	assert.Equal(t, 11, p.SuggestedPrep)
	// Zero volatility: confidence clamps at the 95 ceiling.
	assert.Equal(t, 95, p.Confidence)
}

func TestSummarize_ConfidenceFloor(t *testing.T) {
	// Wildly volatile series pushes 100 - volatility/2 below the floor.
	rows := []domain.DatasetRow{
		{Date: "2026-01-01", ItemName: "Tacos", Quantity: 1},
		{Date: "2026-01-02", ItemName: "Tacos", Quantity: 200},
		{Date: "2026-01-03", ItemName: "Tacos", Quantity: 1},
		{Date: "2026-01-04", ItemName: "Tacos", Quantity: 180},
	}
	s := Summarize(rows)
	require.NotEmpty(t, s.PrepRecommendations)
	assert.Equal(t, 65, s.PrepRecommendations[0].Confidence)
}
