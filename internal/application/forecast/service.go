package forecast

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/fooddemand/api/internal/application/dataset"
	"github.com/fooddemand/api/internal/domain"
	forecastapi "github.com/fooddemand/api/internal/infrastructure/forecast"
)

const (
	minHorizonDays     = 1
	maxHorizonDays     = 30
	defaultHorizonDays = 7
)

const MsgNoDataset = "No dataset imported yet."

// Request is the caller-facing forecast request; the series and rows are
// filled in from the caller's stored dataset.
type Request struct {
	HorizonDays  int    `json:"horizonDays"`
	SelectedItem string `json:"selectedItem"`
}

type Service interface {
	Forecast(ctx context.Context, userID string, req Request) (*forecastapi.Response, error)
}

type datasetStore interface {
	GetDataset(ctx context.Context, userID string) (*domain.Dataset, error)
}

type predictor interface {
	Predict(ctx context.Context, req forecastapi.Request) (*forecastapi.Response, error)
}

type service struct {
	store  datasetStore
	client predictor // nil: external service not configured
}

type ServiceDeps struct {
	Store  datasetStore
	Client predictor
}

func NewService(deps ServiceDeps) Service {
	return &service{store: deps.Store, client: deps.Client}
}

// Forecast proxies the caller's stored dataset to the external forecast
// service and falls back to a deterministic local trend when the service is
// unconfigured, unreachable, or returns a malformed reply.
func (s *service) Forecast(ctx context.Context, userID string, req Request) (*forecastapi.Response, error) {
	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = defaultHorizonDays
	}
	if horizon < minHorizonDays {
		horizon = minHorizonDays
	}
	if horizon > maxHorizonDays {
		horizon = maxHorizonDays
	}

	ds, err := s.store.GetDataset(ctx, userID)
	if err != nil {
		return nil, domain.UserError(domain.ErrNotFound, MsgNoDataset)
	}
	summary := dataset.Summarize(ds.Rows)
	var series []domain.DailyPoint
	if summary != nil {
		series = summary.DailySeries
	}

	apiReq := forecastapi.Request{
		HorizonDays:  horizon,
		SelectedItem: req.SelectedItem,
		DailySeries:  series,
		Rows:         ds.Rows,
	}
	if s.client != nil {
		resp, err := s.client.Predict(ctx, apiReq)
		if err == nil {
			return resp, nil
		}
		slog.Warn("forecast service unreachable, using local fallback", "err", err)
	}

	return &forecastapi.Response{
		Forecast:    fallbackForecast(series, ds.Rows, horizon),
		Source:      "fallback",
		ModelLoaded: false,
		Message:     "Using fallback trend forecast. Select a supported item name for model inference.",
	}, nil
}

// fallbackForecast projects a 7-day mean plus linear trend over the horizon.
// With no usable history it returns a zero forecast from today.
func fallbackForecast(series []domain.DailyPoint, rows []domain.DatasetRow, horizon int) []forecastapi.Point {
	points := historySeries(series, rows)
	if len(points) == 0 {
		out := make([]forecastapi.Point, horizon)
		today := time.Now().UTC()
		for i := range out {
			out[i] = forecastapi.Point{Date: today.AddDate(0, 0, i+1).Format("2006-01-02")}
		}
		return out
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.demand
	}
	recent := values
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}
	var sum float64
	for _, v := range recent {
		sum += v
	}
	baseline := sum / float64(len(recent))

	trend := 0.0
	if len(values) >= 2 {
		anchor := len(values) - 7
		if anchor < 0 {
			anchor = 0
		}
		span := float64(len(recent) - 1)
		if span < 1 {
			span = 1
		}
		trend = (values[len(values)-1] - values[anchor]) / span
	}

	baseDate := points[len(points)-1].day
	out := make([]forecastapi.Point, horizon)
	for i := range out {
		demand := int(math.Round(baseline + trend*float64(i+1)))
		if demand < 0 {
			demand = 0
		}
		out[i] = forecastapi.Point{
			Date:   baseDate.AddDate(0, 0, i+1).Format("2006-01-02"),
			Demand: demand,
		}
	}
	return out
}

type historyPoint struct {
	day    time.Time
	demand float64
}

// historySeries prefers the aggregated daily series and falls back to
// re-aggregating raw rows by day, negative quantities floored at zero.
func historySeries(series []domain.DailyPoint, rows []domain.DatasetRow) []historyPoint {
	var points []historyPoint
	for _, p := range series {
		day, ok := parseDay(p.Date)
		if !ok {
			continue
		}
		points = append(points, historyPoint{day: day, demand: p.Demand})
	}
	if len(points) > 0 {
		sort.Slice(points, func(i, j int) bool { return points[i].day.Before(points[j].day) })
		return points
	}

	totals := map[time.Time]float64{}
	for _, row := range rows {
		day, ok := parseDay(row.Date)
		if !ok {
			continue
		}
		qty := row.Quantity
		if qty < 0 {
			qty = 0
		}
		totals[day] += qty
	}
	for day, demand := range totals {
		points = append(points, historyPoint{day: day, demand: demand})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].day.Before(points[j].day) })
	return points
}

func parseDay(value string) (time.Time, bool) {
	if len(value) > 10 {
		value = value[:10]
	}
	t, err := time.Parse("2006-01-02", value)
	return t, err == nil
}
