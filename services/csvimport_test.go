package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindbankhq/mindbank-api/models"
)

const csvHeader = "name,description,hourly_rate_usd,color,icon,is_active\n"

func TestParseCategoryCSVValidRows(t *testing.T) {
	input := csvHeader +
		"Design,Client design work,65,#3b82f6,palette,true\n" +
		"Writing,,40.50,,,\n"

	rows, rowErrors, err := ParseCategoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 2)

	assert.Equal(t, "Design", rows[0].Name)
	assert.Equal(t, 65.0, rows[0].HourlyRateUSD)
	assert.Equal(t, "#3b82f6", rows[0].Color)
	assert.True(t, rows[0].IsActive)

	assert.Equal(t, "Writing", rows[1].Name)
	assert.Equal(t, 40.50, rows[1].HourlyRateUSD)
	assert.True(t, rows[1].IsActive, "is_active defaults to true")
}

func TestParseCategoryCSVRejectsBadRows(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		reason string
	}{
		{"empty name", ",desc,10,,,", "name is required"},
		{"name too long", strings.Repeat("x", 101) + ",desc,10,,,", "name exceeds 100 characters"},
		{"negative rate", "Design,desc,-5,,,", "hourly_rate_usd must be >= 0"},
		{"non-numeric rate", "Design,desc,abc,,,", "hourly_rate_usd must be a number"},
		{"bad color", "Design,desc,10,blue,,", "color must be a #rrggbb hex value"},
		{"bad active flag", "Design,desc,10,,,maybe", "is_active must be true or false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, rowErrors, err := ParseCategoryCSV(strings.NewReader(csvHeader + tt.row + "\n"))
			require.NoError(t, err)
			assert.Empty(t, rows)
			require.Len(t, rowErrors, 1)
			assert.Equal(t, 1, rowErrors[0].Row)
			assert.Equal(t, tt.reason, rowErrors[0].Reason)
		})
	}
}

func TestParseCategoryCSVPartialSuccess(t *testing.T) {
	// One malformed row does not sink the batch.
	input := csvHeader +
		"Design,,65,,,\n" +
		"Broken,,-1,,,\n"

	rows, rowErrors, err := ParseCategoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Design", rows[0].Name)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 2, rowErrors[0].Row)
}

func TestParseCategoryCSVDuplicateInBatch(t *testing.T) {
	// Case-insensitive, regardless of position.
	input := csvHeader +
		"Design,,65,,,\n" +
		"Writing,,40,,,\n" +
		"design,,70,,,\n"

	rows, rowErrors, err := ParseCategoryCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 3, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Reason, "duplicate name")
}

func TestParseCategoryCSVRejectsWrongHeader(t *testing.T) {
	_, _, err := ParseCategoryCSV(strings.NewReader("title,rate\nDesign,65\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected header")
}

func TestParseCategoryCSVEmptyFile(t *testing.T) {
	_, _, err := ParseCategoryCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestPlanImportSkipsStoredNamesWithoutOverwrite(t *testing.T) {
	rows := []CategoryRow{
		{Line: 1, Name: "Design", HourlyRateUSD: 65},
		{Line: 2, Name: "Writing", HourlyRateUSD: 40},
	}
	existing := map[string]string{"design": "cat-1"}

	plan := planImport(rows, existing, false)

	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, "Writing", plan.Inserts[0].Name)
	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, 1, plan.Skipped[0].Row)
	assert.Contains(t, plan.Skipped[0].Reason, "already exists")
}

func TestPlanImportUpdatesStoredNamesWithOverwrite(t *testing.T) {
	rows := []CategoryRow{
		{Line: 1, Name: "Design", HourlyRateUSD: 70},
		{Line: 2, Name: "Writing", HourlyRateUSD: 40},
	}
	existing := map[string]string{"design": "cat-1"}

	plan := planImport(rows, existing, true)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "cat-1", plan.Updates[0].ID)
	assert.Equal(t, 70.0, plan.Updates[0].Row.HourlyRateUSD)
	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, "Writing", plan.Inserts[0].Name)
	assert.Empty(t, plan.Skipped)
}

func TestPlanImportMatchesStoredNamesCaseInsensitively(t *testing.T) {
	rows := []CategoryRow{{Line: 1, Name: "DESIGN", HourlyRateUSD: 65}}
	existing := map[string]string{"design": "cat-1"}

	plan := planImport(rows, existing, false)
	assert.Empty(t, plan.Inserts)
	require.Len(t, plan.Skipped, 1)
}

func TestImportPlanResultCounts(t *testing.T) {
	rows := []CategoryRow{
		{Line: 1, Name: "Design"},
		{Line: 2, Name: "Writing"},
		{Line: 3, Name: "Admin"},
	}
	existing := map[string]string{"design": "cat-1", "writing": "cat-2"}
	parseErrors := []models.ImportRowError{{Row: 4, Reason: "name is required"}}

	// Design skipped, Writing skipped, Admin inserted.
	result := planImport(rows, existing, false).result(parseErrors)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 3, result.Skipped, "parse errors count as skipped rows")
	assert.Len(t, result.Errors, 3)

	// With overwrite the collisions become updates.
	result = planImport(rows, existing, true).result(parseErrors)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)
}

func TestImportPlanResultNeverNilErrors(t *testing.T) {
	result := planImport(nil, nil, false).result(nil)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestCSVExportImportRoundTrip(t *testing.T) {
	categories := []models.Category{
		{Name: "Design", Description: "Client work", HourlyRateUSD: 65, Color: "#3b82f6", Icon: "palette", IsActive: true},
		{Name: "Deep Work", Description: "focus, no meetings", HourlyRateUSD: 120.5, Color: "#22c55e", IsActive: false},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCategoriesCSV(&buf, categories))

	rows, rowErrors, err := ParseCategoryCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, len(categories))

	for i, cat := range categories {
		assert.Equal(t, cat.Name, rows[i].Name)
		assert.Equal(t, cat.HourlyRateUSD, rows[i].HourlyRateUSD)
		assert.Equal(t, cat.Description, rows[i].Description)
		assert.Equal(t, cat.IsActive, rows[i].IsActive)
	}
}
