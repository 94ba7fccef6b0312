// Package datasets ingests the five public state-level datasets and derives
// the per-state views the dashboard renders.
package datasets

import "strings"

// Canonical state/territory names as published by DOSM. These are the join
// keys across all five datasets.
var CanonicalStates = []string{
	"Johor",
	"Kedah",
	"Kelantan",
	"Melaka",
	"Negeri Sembilan",
	"Pahang",
	"Perak",
	"Perlis",
	"Pulau Pinang",
	"Sabah",
	"Sarawak",
	"Selangor",
	"Terengganu",
	"W.P. Kuala Lumpur",
	"W.P. Labuan",
	"W.P. Putrajaya",
}

// stateAliases maps lower-cased raw spellings seen across the sources to the
// canonical key. Canonical names themselves are added by init so the
// normalizer is idempotent.
var stateAliases = map[string]string{
	"johore":                            "Johor",
	"malacca":                           "Melaka",
	"n. sembilan":                       "Negeri Sembilan",
	"n.sembilan":                        "Negeri Sembilan",
	"penang":                            "Pulau Pinang",
	"p. pinang":                         "Pulau Pinang",
	"trengganu":                         "Terengganu",
	"kuala lumpur":                      "W.P. Kuala Lumpur",
	"wp kuala lumpur":                   "W.P. Kuala Lumpur",
	"w.p kuala lumpur":                  "W.P. Kuala Lumpur",
	"federal territory of kuala lumpur": "W.P. Kuala Lumpur",
	"labuan":                            "W.P. Labuan",
	"wp labuan":                         "W.P. Labuan",
	"w.p labuan":                        "W.P. Labuan",
	"putrajaya":                         "W.P. Putrajaya",
	"wp putrajaya":                      "W.P. Putrajaya",
	"w.p putrajaya":                     "W.P. Putrajaya",
}

func init() {
	for _, s := range CanonicalStates {
		stateAliases[strings.ToLower(s)] = s
	}
}

// NormalizeState maps a raw state name to its canonical key. Multiple raw
// spellings collapse onto one key; a name with no defined mapping is
// returned unchanged so downstream lookups simply find no match instead of
// erroring. The function is pure and idempotent.
func NormalizeState(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := stateAliases[key]; ok {
		return canonical
	}
	return strings.TrimSpace(raw)
}
