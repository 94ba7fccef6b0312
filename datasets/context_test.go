package datasets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statedash/models"
)

func TestChartKindFollowsCategory(t *testing.T) {
	cases := map[models.Category]models.ChartKind{
		models.CategoryIncome:      models.ChartIncome,
		models.CategoryPopulation:  models.ChartPopulation,
		models.CategoryCrime:       models.ChartCrime,
		models.CategoryWater:       models.ChartWater,
		models.CategoryExpenditure: models.ChartExpense,
	}
	c := NewContext(NewFetcher(nil, Endpoints{}))
	for cat, chart := range cases {
		c.SelectCategory(cat)
		_, gotCat, gotChart := c.Selection()
		assert.Equal(t, cat, gotCat)
		assert.Equal(t, chart, gotChart)
	}
}

func TestSeriesEmptyWhenNoStateSelected(t *testing.T) {
	c := NewContext(NewFetcher(nil, Endpoints{}))
	c.setDataset(models.CategoryIncome, []models.Observation{
		{State: "Johor", Date: "2022", Value: 1},
	})
	c.SelectState("")

	series := c.Series()
	require.Len(t, series, len(models.Categories))
	for cat, s := range series {
		assert.NotNil(t, s, "category %s", cat)
		assert.Empty(t, s, "category %s", cat)
	}
}

func TestSeriesRecomputedOnStateChange(t *testing.T) {
	c := NewContext(NewFetcher(nil, Endpoints{}))
	c.setDataset(models.CategoryIncome, []models.Observation{
		{State: "Johor", Date: "2021", Value: 1},
		{State: "Johor", Date: "2020", Value: 2},
		{State: "Sabah", Date: "2022", Value: 3},
	})

	c.SelectState("Johor")
	series := c.Series()
	require.Len(t, series[models.CategoryIncome], 2)
	assert.Equal(t, "2020", series[models.CategoryIncome][0].Date)

	c.SelectState("Sabah")
	series = c.Series()
	require.Len(t, series[models.CategoryIncome], 1)
	assert.Equal(t, 3.0, series[models.CategoryIncome][0].Value)
}

func TestPointLookupIndependentOfSelection(t *testing.T) {
	c := NewContext(NewFetcher(nil, Endpoints{}))
	c.setDataset(models.CategoryCrime, []models.Observation{
		{State: "Perak", Date: "2021", Value: 5},
		{State: "Perak", Date: "2022", Value: 7},
	})
	c.SelectState("Johor")

	got := c.PointLookup("Perak", models.CategoryCrime)
	require.NotNil(t, got)
	assert.Equal(t, 7.0, got.Value)

	assert.Nil(t, c.PointLookup("Kedah", models.CategoryCrime))
}

func TestLoadFansOutAndToleratesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"state": "Johor", "date": "2022", "income_median": "6000"}]`))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	endpoints := Endpoints{
		models.CategoryIncome:      good.URL,
		models.CategoryPopulation:  bad.URL,
		models.CategoryCrime:       bad.URL,
		models.CategoryWater:       bad.URL,
		models.CategoryExpenditure: bad.URL,
	}
	c := NewContext(NewFetcher(good.Client(), endpoints))
	c.Load(context.Background())

	c.SelectState("Johor")
	series := c.Series()
	require.Len(t, series[models.CategoryIncome], 1)
	assert.Equal(t, 6000.0, series[models.CategoryIncome][0].Value)
	assert.Empty(t, series[models.CategoryPopulation])
	assert.Empty(t, series[models.CategoryWater])
}

func TestSeriesForUnknownStateIsEmptyNotNil(t *testing.T) {
	c := NewContext(NewFetcher(nil, Endpoints{}))
	series := c.SeriesFor("Atlantis")
	require.Len(t, series, len(models.Categories))
	for _, s := range series {
		assert.NotNil(t, s)
		assert.Empty(t, s)
	}
}
