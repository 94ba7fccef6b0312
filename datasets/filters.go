package datasets

import (
	"statedash/models"
	"statedash/utils"
)

// PopulationScale converts the population source's unit (thousands of
// persons) into persons for display. Part of the dataset's unit contract: a
// raw value of 1000 means a population of 1,000,000.
const PopulationScale = 1000

// nationalRow is the aggregate row every state-keyed dataset may carry and
// which must never appear in per-state views.
const nationalRow = "Malaysia"

// rawRecord is the superset of fields the five endpoints emit. Numeric
// fields usually arrive as strings but occasionally as bare numbers; the
// loose type absorbs both and ingestion parses leniently.
type rawRecord struct {
	State           string `json:"state"`
	District        string `json:"district"`
	Sector          string `json:"sector"`
	Date            loose  `json:"date"`
	IncomeMedian    loose  `json:"income_median"`
	Population      loose  `json:"population"`
	Crimes          loose  `json:"crimes"`
	Value           loose  `json:"value"`
	ExpenditureMean loose  `json:"expenditure_mean"`
}

// ingest applies the category's fixed filter to the raw records, normalizes
// state names, and parses the metric field. Records whose metric fails to
// parse are kept with a NaN value; records failing a categorical filter are
// dropped. Filters run once here, never inside the reducers.
func ingest(category models.Category, raw []rawRecord) []models.Observation {
	out := make([]models.Observation, 0, len(raw))
	for _, r := range raw {
		state := NormalizeState(r.State)
		var value float64
		switch category {
		case models.CategoryIncome:
			value = utils.ParseLooseFloat(string(r.IncomeMedian))
		case models.CategoryPopulation:
			value = utils.ParseLooseFloat(string(r.Population)) * PopulationScale
		case models.CategoryCrime:
			// Statewide totals only; sub-district rows and the national
			// aggregate never reach the reducers.
			if r.District != "All" || state == nationalRow {
				continue
			}
			value = utils.ParseLooseFloat(string(r.Crimes))
		case models.CategoryWater:
			if r.Sector != "domestic" || state == nationalRow {
				continue
			}
			value = utils.ParseLooseFloat(string(r.Value))
		case models.CategoryExpenditure:
			value = utils.ParseLooseFloat(string(r.ExpenditureMean))
		}
		out = append(out, models.Observation{State: state, Date: string(r.Date), Value: value})
	}
	return out
}
