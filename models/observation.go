package models

import (
	"encoding/json"
	"math"
)

// Observation is one (state, date, value) record from a single dataset.
// State holds the raw name on ingestion and the canonical key afterwards.
// Date is kept as the source string and only compared lexicographically,
// which the sources guarantee orders chronologically (ISO dates or years).
type Observation struct {
	State string  `json:"state"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type observationJSON struct {
	State string   `json:"state"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// MarshalJSON renders a missing value (NaN) as JSON null so the record
// survives encoding and charts can show it as a gap.
func (o Observation) MarshalJSON() ([]byte, error) {
	out := observationJSON{State: o.State, Date: o.Date}
	if !math.IsNaN(o.Value) {
		v := o.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON maps a null value back to NaN.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var in observationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	o.State = in.State
	o.Date = in.Date
	if in.Value == nil {
		o.Value = math.NaN()
	} else {
		o.Value = *in.Value
	}
	return nil
}

// Category identifies one of the five tracked statistic kinds.
type Category string

const (
	CategoryIncome      Category = "income_median"
	CategoryPopulation  Category = "population"
	CategoryCrime       Category = "crime"
	CategoryWater       Category = "water_consumption"
	CategoryExpenditure Category = "expenditure"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryIncome,
	CategoryPopulation,
	CategoryCrime,
	CategoryWater,
	CategoryExpenditure,
}

// ChartKind is the display-series identifier derived from a Category.
type ChartKind string

const (
	ChartIncome     ChartKind = "income"
	ChartPopulation ChartKind = "population"
	ChartCrime      ChartKind = "crime"
	ChartWater      ChartKind = "water"
	ChartExpense    ChartKind = "expense"
)

// chartByCategory is the fixed 1:1 mapping between the selected category and
// the chart rendered for it.
var chartByCategory = map[Category]ChartKind{
	CategoryIncome:      ChartIncome,
	CategoryPopulation:  ChartPopulation,
	CategoryCrime:       ChartCrime,
	CategoryWater:       ChartWater,
	CategoryExpenditure: ChartExpense,
}

// ChartFor returns the chart kind for a category.
func ChartFor(c Category) ChartKind {
	return chartByCategory[c]
}

// ValidCategory reports whether s names one of the five categories.
func ValidCategory(s string) bool {
	_, ok := chartByCategory[Category(s)]
	return ok
}
