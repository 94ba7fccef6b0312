package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectFiltersEmpty(t *testing.T) {
	assert.True(t, ProjectFilters{}.Empty())
	assert.False(t, ProjectFilters{Status: "active"}.Empty())
	assert.False(t, ProjectFilters{StartDateFrom: "2024-01-01"}.Empty())
}
