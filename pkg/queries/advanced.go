package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

// advancedRunner implements Runner for multi-filter corpus searches.
type advancedRunner struct {
	api API
}

func NewAdvancedRunner(api API) Runner {
	return &advancedRunner{api: api}
}

func (r *advancedRunner) Type() string {
	return TypeAdvanced
}

func (r *advancedRunner) Run(ctx context.Context, q Query) ([]domain.Finding, error) {
	if !strings.EqualFold(q.Type, TypeAdvanced) {
		return nil, fmt.Errorf("advanced runner received incompatible query type %q", q.Type)
	}
	if q.Filters == nil || q.Filters.Empty() {
		return nil, fmt.Errorf("query %q has no filters", q.ID)
	}

	filters := q.Filters.APIFilters()
	pageSize := q.pageSizeValue()

	var findings []domain.Finding
	for page := 1; page <= q.maxPagesValue(); page++ {
		payload, err := r.api.SearchAdvanced(ctx, leakradar.AdvancedSearchParams{
			AdvancedFilters: filters,
			Page:            page,
			PageSize:        pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("query %q page %d: %w", q.ID, page, err)
		}

		records := recordsFromPage(payload)
		if len(records) == 0 {
			break
		}
		findings = append(findings, findingsFromRecords(records)...)
		if len(records) < pageSize {
			break
		}
	}
	return findings, nil
}
