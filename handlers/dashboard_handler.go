package handlers

import (
	"net/http"

	"statedash/config"
	"statedash/datasets"
	"statedash/models"
)

// DashboardHandler serves the per-state chart data derived by the
// aggregation context.
type DashboardHandler struct {
	Data *datasets.Context
}

func NewDashboardHandler(data *datasets.Context) *DashboardHandler {
	return &DashboardHandler{Data: data}
}

type statesResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Count   int      `json:"count"`
}

type seriesResponse struct {
	Success bool                                     `json:"success"`
	State   string                                   `json:"state"`
	Data    map[models.Category][]models.Observation `json:"data"`
}

type latestResponse struct {
	Success  bool                `json:"success"`
	State    string              `json:"state"`
	Category models.Category     `json:"category"`
	Chart    models.ChartKind    `json:"chart"`
	Data     *models.Observation `json:"data"`
}

// GetStates handles GET /dashboard/states.
func (h *DashboardHandler) GetStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statesResponse{
		Success: true,
		Data:    datasets.CanonicalStates,
		Count:   len(datasets.CanonicalStates),
	})
}

// GetSeries handles GET /dashboard/series?state=. The state parameter is
// normalized and the series for that state are derived without touching any
// other request's view. An empty or unknown state yields empty series for
// every category rather than an error.
func (h *DashboardHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state != "" {
		state = datasets.NormalizeState(state)
	}
	writeJSON(w, http.StatusOK, seriesResponse{
		Success: true,
		State:   state,
		Data:    h.seriesFor(state),
	})
}

// seriesFor serves derived series from the dataset cache, computing and
// storing them on a miss. The cache is flushed whenever the datasets reload.
func (h *DashboardHandler) seriesFor(state string) map[models.Category][]models.Observation {
	cacheKey := config.GetCacheKey("series", state)
	if config.DatasetCache != nil {
		if cached, found := config.DatasetCache.Get(cacheKey); found {
			return cached.(map[models.Category][]models.Observation)
		}
	}
	series := h.Data.SeriesFor(state)
	if config.DatasetCache != nil {
		config.DatasetCache.SetDefault(cacheKey, series)
	}
	return series
}

// GetLatest handles GET /dashboard/latest?state=&category=. The chart kind
// is derived from the request's own category through the fixed table, and
// the lookup is independent of any selection. Data is null when the dataset
// holds nothing for that state.
func (h *DashboardHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	if !models.ValidCategory(category) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown category"})
		return
	}

	state := datasets.NormalizeState(q.Get("state"))
	cat := models.Category(category)
	writeJSON(w, http.StatusOK, latestResponse{
		Success:  true,
		State:    state,
		Category: cat,
		Chart:    models.ChartFor(cat),
		Data:     h.Data.PointLookup(state, cat),
	})
}
