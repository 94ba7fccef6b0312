package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statedash/config"
	"statedash/datasets"
	"statedash/models"
)

// newDashboard spins up a fake income endpoint serving the source's raw
// record shape and loads it into a fresh context.
func newDashboard(t *testing.T, incomeJSON string) *DashboardHandler {
	t.Helper()
	if incomeJSON == "" {
		incomeJSON = "[]"
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(incomeJSON))
	}))
	t.Cleanup(srv.Close)

	endpoints := datasets.Endpoints{models.CategoryIncome: srv.URL}
	ctx := datasets.NewContext(datasets.NewFetcher(srv.Client(), endpoints))
	ctx.Load(context.Background())
	if config.DatasetCache != nil {
		config.DatasetCache.Flush()
	}
	return NewDashboardHandler(ctx)
}

func TestGetStatesListsCanonicalKeys(t *testing.T) {
	h := newDashboard(t, "")

	rec := httptest.NewRecorder()
	h.GetStates(rec, httptest.NewRequest("GET", "/dashboard/states", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data  []string `json:"data"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 16, resp.Count)
	assert.Contains(t, resp.Data, "W.P. Kuala Lumpur")
}

func TestGetSeriesNormalizesAndSelects(t *testing.T) {
	h := newDashboard(t, `[
		{"state": "Pulau Pinang", "date": "2021", "income_median": "5000"},
		{"state": "Pulau Pinang", "date": "2022", "income_median": "6000"}
	]`)

	rec := httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest("GET", "/dashboard/series?state=Penang", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State string                                   `json:"state"`
		Data  map[models.Category][]models.Observation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Pulau Pinang", resp.State)
	require.Len(t, resp.Data[models.CategoryIncome], 2)
	assert.Equal(t, "2021", resp.Data[models.CategoryIncome][0].Date)

	// Every category is present even when its dataset never loaded.
	require.Len(t, resp.Data, len(models.Categories))
	assert.Empty(t, resp.Data[models.CategoryCrime])
}

func TestGetSeriesWithoutStateIsEmpty(t *testing.T) {
	h := newDashboard(t, `[{"state": "Johor", "date": "2022", "income_median": "1"}]`)

	rec := httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest("GET", "/dashboard/series", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[models.Category][]models.Observation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for cat, series := range resp.Data {
		assert.Empty(t, series, "category %s", cat)
	}
}

func TestGetSeriesConcurrentRequestsStayIndependent(t *testing.T) {
	h := newDashboard(t, `[
		{"state": "Johor", "date": "2021", "income_median": "5500"},
		{"state": "Sabah", "date": "2021", "income_median": "4200"}
	]`)

	var wg sync.WaitGroup
	mismatches := make(chan string, 400)
	for _, state := range []string{"Johor", "Sabah"} {
		wg.Add(1)
		go func(state string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rec := httptest.NewRecorder()
				h.GetSeries(rec, httptest.NewRequest("GET", "/dashboard/series?state="+state, nil))

				var resp struct {
					State string                                   `json:"state"`
					Data  map[models.Category][]models.Observation `json:"data"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					mismatches <- err.Error()
					continue
				}
				if resp.State != state {
					mismatches <- "response for " + state + " echoed state " + resp.State
					continue
				}
				for _, obs := range resp.Data[models.CategoryIncome] {
					if obs.State != state {
						mismatches <- "response for " + state + " carried a row for " + obs.State
					}
				}
			}
		}(state)
	}
	wg.Wait()
	close(mismatches)
	for msg := range mismatches {
		t.Error(msg)
	}
}

func TestGetLatestConcurrentCategoriesStayIndependent(t *testing.T) {
	h := newDashboard(t, `[{"state": "Johor", "date": "2021", "income_median": "5500"}]`)

	var wg sync.WaitGroup
	mismatches := make(chan string, 400)
	for _, cat := range []models.Category{models.CategoryIncome, models.CategoryCrime} {
		wg.Add(1)
		go func(cat models.Category) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rec := httptest.NewRecorder()
				h.GetLatest(rec, httptest.NewRequest("GET", "/dashboard/latest?state=Johor&category="+string(cat), nil))

				var resp struct {
					Category models.Category  `json:"category"`
					Chart    models.ChartKind `json:"chart"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					mismatches <- err.Error()
					continue
				}
				if resp.Category != cat {
					mismatches <- "response for " + string(cat) + " echoed category " + string(resp.Category)
				}
				if resp.Chart != models.ChartFor(cat) {
					mismatches <- "response for " + string(cat) + " carried chart " + string(resp.Chart)
				}
			}
		}(cat)
	}
	wg.Wait()
	close(mismatches)
	for msg := range mismatches {
		t.Error(msg)
	}
}

func TestGetSeriesStoresDerivedSeriesInCache(t *testing.T) {
	config.InitCache()
	t.Cleanup(config.ClearAllCaches)

	h := newDashboard(t, `[{"state": "Johor", "date": "2021", "income_median": "5500"}]`)

	rec := httptest.NewRecorder()
	h.GetSeries(rec, httptest.NewRequest("GET", "/dashboard/series?state=Johor", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cached, found := config.DatasetCache.Get(config.GetCacheKey("series", "Johor"))
	require.True(t, found)
	series := cached.(map[models.Category][]models.Observation)
	require.Len(t, series[models.CategoryIncome], 1)
	assert.Equal(t, 5500.0, series[models.CategoryIncome][0].Value)

	// A cache hit serves the same body.
	rec2 := httptest.NewRecorder()
	h.GetSeries(rec2, httptest.NewRequest("GET", "/dashboard/series?state=Johor", nil))
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.JSONEq(t, rec.Body.String(), rec2.Body.String())
}

func TestGetLatestReturnsChartKind(t *testing.T) {
	h := newDashboard(t, `[
		{"state": "Johor", "date": "2021", "income_median": "5500"},
		{"state": "Johor", "date": "2022", "income_median": 5800}
	]`)

	rec := httptest.NewRecorder()
	h.GetLatest(rec, httptest.NewRequest("GET", "/dashboard/latest?state=Johor&category=income_median", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Chart models.ChartKind    `json:"chart"`
		Data  *models.Observation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ChartIncome, resp.Chart)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 5800.0, resp.Data.Value)
}

func TestGetLatestUnknownCategory(t *testing.T) {
	h := newDashboard(t, "")

	rec := httptest.NewRecorder()
	h.GetLatest(rec, httptest.NewRequest("GET", "/dashboard/latest?state=Johor&category=weather", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
