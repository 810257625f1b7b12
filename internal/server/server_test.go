package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Put(ctx context.Context, runID, name string, content []byte) (string, error) {
	args := m.Called(ctx, runID, name, content)
	return args.String(0), args.Error(1)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	cfg := model.DefaultAppConfig()
	cfg.CacheSize = 8
	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	require.NoError(t, err)
	return s
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

const scheduleBody = `{
	"requirements": [
		{"identifier": "A1", "diameter": 12, "length": 2.5, "quantity": 4},
		{"identifier": "B1", "diameter": 16, "length": 6, "quantity": 2}
	],
	"settings": {"stock_length": 10, "tolerance_mm": 0, "lap_factor": 40}
}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)
}

func TestWeights(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/weights", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []struct {
		Diameter   int     `json:"diameter"`
		Label      string  `json:"label"`
		UnitWeight float64 `json:"unit_weight"`
	}
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &rows))
	require.Len(t, rows, len(model.DefaultWeights))
	assert.Equal(t, 6, rows[0].Diameter)
	assert.Equal(t, "DB6", rows[0].Label)
	assert.InDelta(t, 0.222, rows[0].UnitWeight, 1e-9)
}

func TestOptimize(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/optimize", scheduleBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp OptimizeResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))

	assert.False(t, resp.Cached)
	// DB12: 4 x 2.5 fills one 10 m bar. DB16: 2 x 6 needs two bars.
	assert.Equal(t, 3, resp.Result.TotalStockUsed)
	require.Len(t, resp.Result.ProcurementSummary, 2)
	assert.Equal(t, 12, resp.Result.ProcurementSummary[0].Diameter)
	assert.Equal(t, 1, resp.Result.ProcurementSummary[0].BarCount)
	assert.Equal(t, 16, resp.Result.ProcurementSummary[1].Diameter)
	assert.Equal(t, 2, resp.Result.ProcurementSummary[1].BarCount)
	assert.Equal(t, 3, resp.MinimumBars)
}

func TestOptimizeIsCached(t *testing.T) {
	s := newTestServer(t)
	first := post(t, s, "/api/optimize", scheduleBody)
	second := post(t, s, "/api/optimize", scheduleBody)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b OptimizeResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(first.Body.String()), &a))
	require.NoError(t, render.DecodeJSON(strings.NewReader(second.Body.String()), &b))

	assert.False(t, a.Cached)
	assert.True(t, b.Cached)
	assert.Equal(t, a.Result.RunID, b.Result.RunID)
	assert.Equal(t, 1, s.cache.Len())
}

func TestOptimizeInvalidRequirement(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/optimize", `{"requirements":[{"identifier":"A1","diameter":12,"length":-1,"quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, string(model.KindInvalidRequirement), resp.Error.Kind)
	assert.NotEmpty(t, resp.Error.Message)
	assert.Equal(t, 0, s.cache.Len())
}

func TestOptimizeInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/optimize", `{"requirements":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, kindBadRequest, resp.Error.Kind)
}

func TestOptimizeUsesConfiguredDefaults(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/optimize", `{"requirements":[{"identifier":"A1","diameter":12,"length":3,"quantity":1}]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp OptimizeResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, model.DefaultSettings().StockLength, resp.Settings.StockLength)
	assert.Equal(t, model.DefaultSettings().ToleranceMM, resp.Settings.ToleranceMM)
}

func TestSplice(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"requirements": [{"identifier": "C1", "diameter": 20, "length": 15, "quantity": 2}],
		"settings": {"stock_length": 12, "tolerance_mm": 5, "lap_factor": 40}
	}`
	rr := post(t, s, "/api/splice", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp SpliceResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	require.Len(t, resp.Requirements, 2)
	assert.Equal(t, "C1(1/2)", resp.Requirements[0].Identifier)
	assert.Equal(t, "C1(2/2)", resp.Requirements[1].Identifier)
	assert.Equal(t, 1, resp.Stats.OriginalCount)
	assert.Equal(t, 2, resp.Stats.TotalSpliced)
}

func TestSpliceDegenerate(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"requirements": [{"identifier": "C1", "diameter": 32, "length": 15, "quantity": 1}],
		"settings": {"stock_length": 1, "tolerance_mm": 5, "lap_factor": 40}
	}`
	rr := post(t, s, "/api/splice", body)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, string(model.KindDegenerateSplicing), resp.Error.Kind)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/compare", scheduleBody)
	require.Equal(t, http.StatusOK, rr.Code)

	var rows []engine.ComparisonResult
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, "Current Settings", rows[0].Scenario.Name)
	assert.Equal(t, 3, rows[0].BarsUsed)
	for _, row := range rows {
		assert.Nil(t, row.Plan)
	}
}

func TestReportFormats(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"pdf", "application/pdf", "%PDF"},
		{"xlsx", reportTypes["xlsx"], "PK"},
		{"csv", "text/csv", "diameter,bar,identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rr := post(t, s, "/api/report/"+tt.format, scheduleBody)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, tt.contentType, rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Header().Get("Content-Disposition"), "."+tt.format)
			assert.True(t, strings.HasPrefix(rr.Body.String(), tt.prefix))
		})
	}
}

func TestReportUnsupportedFormat(t *testing.T) {
	s := newTestServer(t)
	rr := post(t, s, "/api/report/docx", scheduleBody)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, kindUnsupportedFormat, resp.Error.Kind)
}

func TestReportArchive(t *testing.T) {
	arch := new(MockArchiver)
	arch.On("Put", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(name string) bool {
		return strings.HasSuffix(name, ".csv")
	}), mock.Anything).Return("run/barcut.csv", nil)

	s := newTestServer(t, WithArchiver(arch))
	rr := post(t, s, "/api/report/csv?archive=true", scheduleBody)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "run/barcut.csv", rr.Header().Get("X-Archive-Key"))
	arch.AssertExpectations(t)
}

func TestReportArchiveFailureStillServesFile(t *testing.T) {
	arch := new(MockArchiver)
	arch.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket offline"))

	s := newTestServer(t, WithArchiver(arch))
	rr := post(t, s, "/api/report/csv?archive=true", scheduleBody)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Archive-Key"))
	assert.NotEmpty(t, rr.Body.String())
}

func TestReportWithoutArchiveFlagSkipsUpload(t *testing.T) {
	arch := new(MockArchiver)
	s := newTestServer(t, WithArchiver(arch))
	rr := post(t, s, "/api/report/csv", scheduleBody)
	require.Equal(t, http.StatusOK, rr.Code)
	arch.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCacheKeyStable(t *testing.T) {
	req := PlanRequest{
		Requirements: []model.Requirement{{Identifier: "A", Diameter: 12, Length: 1, Quantity: 1}},
		Settings:     model.DefaultSettings(),
	}
	a, err := cacheKey(req)
	require.NoError(t, err)
	req.Title = "ignored"
	b, err := cacheKey(req)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	req.Settings.StockLength = 10
	c, err := cacheKey(req)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
