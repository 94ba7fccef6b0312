package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"statedash/models"
)

// Endpoints holds the source URL for each dataset.
type Endpoints map[models.Category]string

// EndpointsFromEnv builds the endpoint table from the INCOME_URL,
// POPULATION_URL, CRIME_URL, WATER_URL and EXPENSE_URL environment
// variables, falling back to the public data portal defaults.
func EndpointsFromEnv(getenv func(string) string) Endpoints {
	pick := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return Endpoints{
		models.CategoryIncome:      pick("INCOME_URL", "https://api.data.gov.my/data-catalogue?id=hh_income_state"),
		models.CategoryPopulation:  pick("POPULATION_URL", "https://api.data.gov.my/data-catalogue?id=population_state"),
		models.CategoryCrime:       pick("CRIME_URL", "https://api.data.gov.my/data-catalogue?id=crime_district"),
		models.CategoryWater:       pick("WATER_URL", "https://api.data.gov.my/data-catalogue?id=water_consumption"),
		models.CategoryExpenditure: pick("EXPENSE_URL", "https://api.data.gov.my/data-catalogue?id=hies_state"),
	}
}

// Fetcher pulls one dataset from its endpoint and runs ingestion on it.
type Fetcher struct {
	client    *http.Client
	endpoints Endpoints
}

// NewFetcher creates a Fetcher. A nil client gets a 30 second timeout
// default.
func NewFetcher(client *http.Client, endpoints Endpoints) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, endpoints: endpoints}
}

// Fetch downloads and ingests the dataset for one category. The body is a
// JSON array of loosely-typed records; numeric fields are strings and parse
// failures surface as NaN values on retained records, never as an error.
func (f *Fetcher) Fetch(ctx context.Context, category models.Category) ([]models.Observation, error) {
	url, ok := f.endpoints[category]
	if !ok {
		return nil, fmt.Errorf("no endpoint configured for category %s", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %v", category, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s dataset: %v", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s dataset", resp.StatusCode, category)
	}

	var raw []rawRecord
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s dataset: %v", category, err)
	}

	return ingest(category, raw), nil
}
