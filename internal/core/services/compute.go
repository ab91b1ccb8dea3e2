package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
)

// yearPattern matches standalone 4-digit numeric tokens in the query.
var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// ComputationEngine answers computational queries by extracting
// structured entities from the question and aggregating matching rows.
//
// This is a best-effort heuristic extractor over a closed vocabulary,
// not a general NL-to-SQL engine. Unmatched vocabulary degrades to a
// clarification response, never an error. When no year is named, all
// numeric columns across matched rows are summed together, which can
// conflate unrelated numeric fields; this is a documented limitation of
// the heuristic.
type ComputationEngine struct {
	vocab domain.Vocabulary
}

// NewComputationEngine creates an engine over the given entity
// vocabulary.
func NewComputationEngine(vocab domain.Vocabulary) *ComputationEngine {
	return &ComputationEngine{vocab: vocab}
}

// Compute aggregates rows matching the query's extracted entities and
// renders the result, or a clarification message when extraction or
// matching comes up empty. Every return value is user-facing text.
func (e *ComputationEngine) Compute(query string, rows []domain.Row) string {
	lowered := strings.ToLower(query)

	category := matchVocab(lowered, e.vocab.Categories)
	if category == "" {
		return "I need to know which crop you are asking about. " +
			"Please name one (for example: rice, wheat, maize) and I will compute the totals."
	}

	region := matchVocab(lowered, e.vocab.Regions)
	years := extractYears(query)

	matched := filterRows(rows, category, region)
	if len(matched) == 0 {
		if region != "" {
			return fmt.Sprintf("No data found for %s in %s.", category, region)
		}
		return fmt.Sprintf("No data found for %s.", category)
	}

	values := collectNumeric(matched, years)
	if len(values) == 0 {
		return fmt.Sprintf("Found %d matching records for %s, but no numeric data to aggregate.",
			len(matched), category)
	}

	var total float64
	for _, v := range values {
		total += v
	}
	average := total / float64(len(values))

	subject := category
	if region != "" {
		subject += " in " + region
	}

	return fmt.Sprintf("Computed result for %s (%s): total %.2f, average %.2f across %d values.",
		subject, yearRangeLabel(years), total, average, len(values))
}

// matchVocab returns the first vocabulary entry contained in the
// lower-cased query, or "".
func matchVocab(lowered string, vocab []string) string {
	for _, entry := range vocab {
		if strings.Contains(lowered, entry) {
			return entry
		}
	}
	return ""
}

// maxYearSpan bounds range expansion so a stray 4-digit token cannot
// blow the filter up to thousands of years.
const maxYearSpan = 100

// extractYears pulls 4-digit tokens out of the query and expands them to
// the full inclusive range, so "from 2020 to 2022" covers a 2021 column
// as well. Sorted ascending.
func extractYears(query string) []string {
	tokens := yearPattern.FindAllString(query, -1)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var parsed []int
	for _, tok := range tokens {
		y, err := strconv.Atoi(tok)
		if err != nil || seen[y] {
			continue
		}
		seen[y] = true
		parsed = append(parsed, y)
	}
	sort.Ints(parsed)

	lo, hi := parsed[0], parsed[len(parsed)-1]
	if hi-lo > maxYearSpan {
		// Too wide to be a plausible range; keep only the named years.
		years := make([]string, len(parsed))
		for i, y := range parsed {
			years[i] = strconv.Itoa(y)
		}
		return years
	}

	years := make([]string, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// filterRows keeps rows whose flattened text contains the category and,
// when present, the region.
func filterRows(rows []domain.Row, category, region string) []domain.Row {
	var matched []domain.Row
	for _, row := range rows {
		flat := strings.ToLower(row.Flatten())
		if !strings.Contains(flat, category) {
			continue
		}
		if region != "" && !strings.Contains(flat, region) {
			continue
		}
		matched = append(matched, row)
	}
	return matched
}

// collectNumeric gathers the numeric-parseable values of every retained
// row. A column contributes when no years were specified or its name
// textually contains one of the extracted years, letting year columns
// act as an implicit time filter.
func collectNumeric(rows []domain.Row, years []string) []float64 {
	var values []float64
	for _, row := range rows {
		for _, col := range row.Columns {
			if len(years) > 0 && !columnMatchesYear(col, years) {
				continue
			}
			raw := strings.TrimSpace(strings.ReplaceAll(row.Values[col], ",", ""))
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}

func columnMatchesYear(column string, years []string) bool {
	for _, year := range years {
		if strings.Contains(column, year) {
			return true
		}
	}
	return false
}

// yearRangeLabel renders the extracted years as a range. The range
// reflects the query, not the data: asking for 2020 to 2022 reports
// 2020-2022 even when only two of those years had values.
func yearRangeLabel(years []string) string {
	switch len(years) {
	case 0:
		return "available years"
	case 1:
		return years[0]
	default:
		return years[0] + "-" + years[len(years)-1]
	}
}
