package domain

import "time"

// ColumnMapping maps dataset fields to source-file column headers.
// Date, ItemName and Quantity are required; Revenue is optional.
type ColumnMapping struct {
	Date     string `json:"date"`
	ItemName string `json:"itemName"`
	Quantity string `json:"quantity"`
	Revenue  string `json:"revenue,omitempty"`
}

// DatasetRow is one normalized sales record. Date is an ISO day key
// (YYYY-MM-DD); Revenue is nil when the source column was absent or blank.
type DatasetRow struct {
	Date     string   `json:"date" dynamodbav:"date"`
	ItemName string   `json:"itemName" dynamodbav:"item_name"`
	Quantity float64  `json:"quantity" dynamodbav:"quantity"`
	Revenue  *float64 `json:"revenue" dynamodbav:"revenue"`
}

// Dataset is the per-user working dataset. One per user; a new accepted
// upload replaces the previous one.
type Dataset struct {
	UserID     string        `json:"userId" dynamodbav:"user_id"`
	FileName   string        `json:"fileName" dynamodbav:"file_name"`
	Mapping    ColumnMapping `json:"mapping" dynamodbav:"mapping"`
	Rows       []DatasetRow  `json:"rows" dynamodbav:"rows"`
	ArchiveURL string        `json:"archiveUrl,omitempty" dynamodbav:"archive_url"`
	UploadedAt time.Time     `json:"uploadedAt" dynamodbav:"uploaded_at"`
}

// Upload history statuses.
const (
	UploadImported = "Imported"
	UploadFailed   = "Failed"
)

// UploadRecord is one upload-history entry. History is capped per user and
// records rejected uploads too.
type UploadRecord struct {
	ID          string    `json:"id" dynamodbav:"upload_id"`
	UserID      string    `json:"-" dynamodbav:"user_id"`
	FileName    string    `json:"fileName" dynamodbav:"file_name"`
	RowCount    int       `json:"rowCount" dynamodbav:"row_count"`
	HealthScore int       `json:"healthScore" dynamodbav:"health_score"`
	Status      string    `json:"status" dynamodbav:"status"`
	UploadedAt  time.Time `json:"uploadedAt" dynamodbav:"uploaded_at"`
}

// HealthStats are the raw counters behind a health report.
type HealthStats struct {
	TotalRows        int `json:"totalRows"`
	MissingRequired  int `json:"missingRequired"`
	InvalidDates     int `json:"invalidDates"`
	Duplicates       int `json:"duplicates"`
	NegativeQuantity int `json:"negativeQuantity"`
	NegativeRevenue  int `json:"negativeRevenue"`
	Outliers         int `json:"outliers"`
}

// HealthReport grades a parsed upload before it is accepted. Blocking errors
// reject the upload; warnings are surfaced but do not.
type HealthReport struct {
	Score          int         `json:"score"`
	BlockingErrors []string    `json:"blockingErrors"`
	Warnings       []string    `json:"warnings"`
	Stats          HealthStats `json:"stats"`
}

// DailyPoint is demand (and revenue, when known) aggregated over one day.
type DailyPoint struct {
	Date    string  `json:"date"`
	Demand  float64 `json:"demand"`
	Revenue float64 `json:"revenue"`
}

// ItemTotal is cumulative demand for one menu item.
type ItemTotal struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"qty"`
}

// PrepRecommendation suggests a prep quantity for a top item based on its
// recent daily average.
type PrepRecommendation struct {
	Item            string  `json:"item"`
	HistoricalTotal float64 `json:"historicalTotal"`
	SuggestedPrep   int     `json:"suggestedPrep"`
	Confidence      int     `json:"confidence"`
}

// DatasetSummary is the chart-feeding aggregate over a stored dataset.
type DatasetSummary struct {
	TotalRows           int                  `json:"totalRows"`
	TotalDemand         float64              `json:"totalDemand"`
	TotalRevenue        *float64             `json:"totalRevenue"` // nil when any row lacked revenue
	DataDays            int                  `json:"dataDays"`
	AvgDailyDemand      float64              `json:"avgDailyDemand"`
	Volatility          float64              `json:"volatility"` // stddev/mean, percent
	DistinctItems       int                  `json:"distinctItems"`
	DailySeries         []DailyPoint         `json:"dailySeries"`
	TopItems            []ItemTotal          `json:"topItems"`
	PrepRecommendations []PrepRecommendation `json:"prepRecommendations"`
}
