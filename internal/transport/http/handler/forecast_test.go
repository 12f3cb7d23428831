package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fooddemand/api/internal/application/forecast"
	"github.com/fooddemand/api/internal/domain"
	forecastapi "github.com/fooddemand/api/internal/infrastructure/forecast"
	"github.com/fooddemand/api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockForecastSvc struct{ mock.Mock }

func (m *mockForecastSvc) Forecast(ctx context.Context, userID string, req forecast.Request) (*forecastapi.Response, error) {
	args := m.Called(ctx, userID, req)
	if r, _ := args.Get(0).(*forecastapi.Response); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func forecastReq(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/forecast", bytes.NewReader([]byte(body)))
	return withPrincipal(req, &middleware.Principal{UserID: "u1", SessionID: "s1"})
}

func TestForecast_ProxiesRequest(t *testing.T) {
	svc := &mockForecastSvc{}
	svc.On("Forecast", mock.Anything, "u1", forecast.Request{HorizonDays: 14, SelectedItem: "Tacos"}).
		Return(&forecastapi.Response{Source: "model", ModelLoaded: true}, nil)

	h := NewForecastHandler(svc)
	rec := httptest.NewRecorder()
	h.Forecast(rec, forecastReq(`{"horizonDays":14,"selectedItem":"Tacos"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "model", decodeBody(t, rec)["source"])
	svc.AssertExpectations(t)
}

func TestForecast_NoDataset_404(t *testing.T) {
	svc := &mockForecastSvc{}
	svc.On("Forecast", mock.Anything, "u1", mock.Anything).
		Return(nil, domain.UserError(domain.ErrNotFound, forecast.MsgNoDataset))

	h := NewForecastHandler(svc)
	rec := httptest.NewRecorder()
	h.Forecast(rec, forecastReq(`{}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No dataset imported yet.", decodeBody(t, rec)["message"])
}

func TestForecast_NoPrincipal_401(t *testing.T) {
	h := NewForecastHandler(&mockForecastSvc{})
	rec := httptest.NewRecorder()
	h.Forecast(rec, httptest.NewRequest(http.MethodPost, "/v1/forecast", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
