package datasets

import (
	"sort"

	"statedash/models"
)

// LatestFor returns the observation with the maximum date for the given
// canonical state, or nil when the dataset holds nothing for it. When two
// records share the maximal date the last one in ingestion order wins; the
// sources do not pin an order for duplicate dates, so "last in" is the
// documented policy rather than an accident of iteration.
func LatestFor(dataset []models.Observation, canonicalState string) *models.Observation {
	var latest *models.Observation
	for i := range dataset {
		o := &dataset[i]
		if o.State != canonicalState {
			continue
		}
		if latest == nil || o.Date >= latest.Date {
			latest = o
		}
	}
	if latest == nil {
		return nil
	}
	copied := *latest
	return &copied
}

// FilterAndSort returns every observation for the given canonical state
// sorted ascending by date. The sort is stable, so records sharing a date
// keep their ingestion order. The result is never nil.
func FilterAndSort(dataset []models.Observation, canonicalState string) []models.Observation {
	out := make([]models.Observation, 0)
	for _, o := range dataset {
		if o.State == canonicalState {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
