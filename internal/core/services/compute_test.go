package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// makeRow builds a row with columns in the given key order.
func makeRow(pairs ...string) domain.Row {
	row := domain.Row{Values: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.Columns = append(row.Columns, pairs[i])
		row.Values[pairs[i]] = pairs[i+1]
	}
	return row
}

func cropRows() []domain.Row {
	return []domain.Row{
		makeRow("Crop", "Rice", "State", "Punjab", "2020", "100", "2021", "120", "2023", "90"),
		makeRow("Crop", "Wheat", "State", "Punjab", "2020", "200", "2021", "210", "2023", "220"),
		makeRow("Crop", "Rice", "State", "Kerala", "2020", "50", "2021", "60", "2023", "70"),
	}
}

func TestComputationEngine_YearRange(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	rows := []domain.Row{
		makeRow("Crop", "Rice", "State", "Punjab", "2020", "100", "2021", "120"),
	}

	result := engine.Compute("total rice production in punjab from 2020 to 2022", rows)

	// Both year columns fall inside the requested range: 100 + 120.
	assert.Contains(t, result, "total 220.00")
	assert.Contains(t, result, "average 110.00")
	assert.Contains(t, result, "across 2 values")
	assert.Contains(t, result, "2020-2022")
	assert.Contains(t, result, "rice in punjab")
}

func TestComputationEngine_SingleYear(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	result := engine.Compute("sum of rice production in punjab in 2020", cropRows())

	assert.Contains(t, result, "total 100.00")
	assert.Contains(t, result, "(2020)")
}

func TestComputationEngine_NoYearSumsAllNumericColumns(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	result := engine.Compute("total rice in kerala", cropRows())

	// 50 + 60 + 70; the Crop and State columns don't parse as numbers.
	assert.Contains(t, result, "total 180.00")
	assert.Contains(t, result, "available years")
}

func TestComputationEngine_NoRegionAggregatesAllStates(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	result := engine.Compute("total rice production in 2020", cropRows())

	// Punjab 100 + Kerala 50.
	assert.Contains(t, result, "total 150.00")
	assert.NotContains(t, result, " in punjab")
}

func TestComputationEngine_CommaSeparatedValues(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	rows := []domain.Row{
		makeRow("Crop", "Wheat", "State", "Haryana", "2020", "1,250.50"),
	}

	result := engine.Compute("total wheat production in 2020", rows)

	assert.Contains(t, result, "total 1250.50")
}

func TestComputationEngine_NoCategoryAsksForClarification(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	result := engine.Compute("total production in punjab", cropRows())

	assert.Contains(t, result, "which crop")
}

func TestComputationEngine_NoMatchingRows(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "with region",
			query: "total sugarcane in punjab",
			want:  "No data found for sugarcane in punjab.",
		},
		{
			name:  "without region",
			query: "total sugarcane production",
			want:  "No data found for sugarcane.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Compute(tt.query, cropRows()))
		})
	}
}

func TestComputationEngine_MatchedRowsWithoutNumbers(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	rows := []domain.Row{
		makeRow("Crop", "Rice", "State", "Punjab", "Season", "Kharif"),
	}

	result := engine.Compute("total rice in punjab", rows)

	assert.Contains(t, result, "Found 1 matching records for rice")
	assert.Contains(t, result, "no numeric data")
}

func TestComputationEngine_EmptyRows(t *testing.T) {
	engine := NewComputationEngine(domain.DefaultVocabulary())

	result := engine.Compute("total rice", nil)

	assert.Equal(t, "No data found for rice.", result)
}

func TestExtractYears(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "no years",
			query: "total rice production",
			want:  nil,
		},
		{
			name:  "single year",
			query: "rice in 2020",
			want:  []string{"2020"},
		},
		{
			name:  "range expands to intermediate years",
			query: "rice from 2020 to 2023",
			want:  []string{"2020", "2021", "2022", "2023"},
		},
		{
			name:  "duplicates collapse",
			query: "2020 and again 2020",
			want:  []string{"2020"},
		},
		{
			name:  "unordered tokens sort",
			query: "compare 2022 with 2020",
			want:  []string{"2020", "2021", "2022"},
		},
		{
			name:  "implausibly wide span keeps only named years",
			query: "from 1000 to 2020",
			want:  []string{"1000", "2020"},
		},
		{
			name:  "five digit token ignored",
			query: "batch 12345",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractYears(tt.query))
		})
	}
}

func TestYearRangeLabel(t *testing.T) {
	assert.Equal(t, "available years", yearRangeLabel(nil))
	assert.Equal(t, "2020", yearRangeLabel([]string{"2020"}))
	assert.Equal(t, "2019-2022", yearRangeLabel([]string{"2019", "2020", "2021", "2022"}))
}
