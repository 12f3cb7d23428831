package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fooddemand/api/internal/domain"
)

// Request is the payload the forecast service expects: the historical daily
// series plus the raw rows it may use for price estimation.
type Request struct {
	HorizonDays  int                 `json:"horizonDays"`
	SelectedItem string              `json:"selectedItem,omitempty"`
	DailySeries  []domain.DailyPoint `json:"dailySeries"`
	Rows         []domain.DatasetRow `json:"rows"`
}

// Point is one predicted day of demand.
type Point struct {
	Date   string `json:"date"`
	Demand int    `json:"demand"`
}

// Response is the single documented response schema. The service always
// returns this shape; anything else is treated as a transport failure rather
// than sniffed for alternative layouts.
type Response struct {
	Forecast    []Point `json:"forecast"`
	Source      string  `json:"source"` // "model" | "fallback"
	ModelLoaded bool    `json:"modelLoaded"`
	Message     string  `json:"message,omitempty"`
}

// Client calls the external forecast-generation HTTP service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Predict POSTs the request to the service's /forecast endpoint.
func (c *Client) Predict(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal forecast request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("forecast service: %w", domain.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service returned %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", domain.ErrUnavailable)
	}
	if out.Forecast == nil {
		return nil, fmt.Errorf("forecast response missing forecast field: %w", domain.ErrUnavailable)
	}
	return &out, nil
}
