package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"statedash/models"
)

func TestEncodeProjectsEmptyCollection(t *testing.T) {
	blob, err := EncodeProjects(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Name", rows[0][1])
	assert.Len(t, rows[0], len(columns))
}

func TestEncodeProjectsWritesOneRowPerProject(t *testing.T) {
	created := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	projects := []models.Project{
		{
			ID:         "p-1",
			Name:       "Rural Clinic Upgrade",
			StateID:    "Kelantan",
			Type:       "healthcare",
			Status:     "in_progress",
			StartDate:  "2024-01-01",
			Budget:     250000,
			Contractor: "Medik Bina",
			Progress:   55,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:        "p-2",
			Name:      "Water Treatment Plant",
			StateID:   "Pahang",
			CreatedAt: created,
			UpdatedAt: created,
		},
	}

	blob, err := EncodeProjects(projects)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "p-1", rows[1][0])
	assert.Equal(t, "Rural Clinic Upgrade", rows[1][1])
	assert.Equal(t, "250000", rows[1][7])
	assert.Equal(t, "2024-03-10", rows[1][16], "created_at rendered as calendar date")
	assert.Equal(t, "p-2", rows[2][0])
}
