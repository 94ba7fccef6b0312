package datasets

import (
	"context"
	"log"
	"sync"

	"statedash/models"
)

// Context owns the five fetched datasets and the per-state derived views for
// the lifetime of a viewing session. It is constructed once in main and
// injected into the handlers; nothing else mutates the datasets.
//
// Datasets arrive asynchronously and independently. Each arrival stores its
// slot and recomputes only the derived series for that slot, so the
// dashboard stays usable with whatever subset has loaded.
type Context struct {
	fetcher *Fetcher

	mu               sync.RWMutex
	data             map[models.Category][]models.Observation
	selectedState    string // empty means no state selected
	selectedCategory models.Category
	series           map[models.Category][]models.Observation
}

// NewContext creates an aggregation context with empty datasets and the
// income category selected, matching the dashboard's initial view.
func NewContext(fetcher *Fetcher) *Context {
	c := &Context{
		fetcher:          fetcher,
		data:             make(map[models.Category][]models.Observation),
		selectedCategory: models.CategoryIncome,
		series:           make(map[models.Category][]models.Observation),
	}
	for _, cat := range models.Categories {
		c.series[cat] = []models.Observation{}
	}
	return c
}

// Load fans out one fetch per dataset and waits for all of them to settle.
// A failed fetch logs and leaves that dataset empty; the other slots are
// unaffected. Safe to call again to refresh.
func (c *Context) Load(ctx context.Context) {
	var wg sync.WaitGroup
	for _, cat := range models.Categories {
		wg.Add(1)
		go func(cat models.Category) {
			defer wg.Done()
			observations, err := c.fetcher.Fetch(ctx, cat)
			if err != nil {
				log.Printf("Failed to load %s dataset: %v", cat, err)
				return
			}
			c.setDataset(cat, observations)
			log.Printf("Loaded %s dataset: %d records", cat, len(observations))
		}(cat)
	}
	wg.Wait()
}

// setDataset stores one slot and recomputes only the series derived from it.
func (c *Context) setDataset(cat models.Category, observations []models.Observation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[cat] = observations
	c.recomputeSeriesLocked(cat)
}

// SelectState changes the state under inspection; empty clears the
// selection and empties every derived series.
func (c *Context) SelectState(canonicalKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedState = canonicalKey
	for _, cat := range models.Categories {
		c.recomputeSeriesLocked(cat)
	}
}

// SelectCategory changes the active category. The chart kind is derived
// from the category through the fixed table, so no inconsistent pairing is
// ever observable.
func (c *Context) SelectCategory(cat models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedCategory = cat
}

// Selection returns the current state key (empty when none), category and
// derived chart kind.
func (c *Context) Selection() (state string, cat models.Category, chart models.ChartKind) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedState, c.selectedCategory, models.ChartFor(c.selectedCategory)
}

func (c *Context) recomputeSeriesLocked(cat models.Category) {
	if c.selectedState == "" {
		c.series[cat] = []models.Observation{}
		return
	}
	c.series[cat] = FilterAndSort(c.data[cat], c.selectedState)
}

// Series returns the derived chart series for every category at the current
// selected state. Every category is present; unselected or unloaded slots
// map to empty slices, never nil.
func (c *Context) Series() map[models.Category][]models.Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[models.Category][]models.Observation, len(c.series))
	for cat, s := range c.series {
		copied := make([]models.Observation, len(s))
		copy(copied, s)
		out[cat] = copied
	}
	return out
}

// SeriesFor computes the chart series of one state directly, independent of
// the current selection.
func (c *Context) SeriesFor(canonicalKey string) map[models.Category][]models.Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[models.Category][]models.Observation, len(models.Categories))
	for _, cat := range models.Categories {
		if canonicalKey == "" {
			out[cat] = []models.Observation{}
			continue
		}
		out[cat] = FilterAndSort(c.data[cat], canonicalKey)
	}
	return out
}

// PointLookup returns the latest observation of a category for any state,
// independent of the current selection. Used for hover previews. Returns
// nil when the dataset holds nothing for that state.
func (c *Context) PointLookup(canonicalKey string, cat models.Category) *models.Observation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return LatestFor(c.data[cat], canonicalKey)
}
