package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

// domainRunner implements Runner for categorized domain leak lists.
type domainRunner struct {
	api API
}

func NewDomainRunner(api API) Runner {
	return &domainRunner{api: api}
}

func (r *domainRunner) Type() string {
	return TypeDomain
}

func (r *domainRunner) Run(ctx context.Context, q Query) ([]domain.Finding, error) {
	if !strings.EqualFold(q.Type, TypeDomain) {
		return nil, fmt.Errorf("domain runner received incompatible query type %q", q.Type)
	}
	if strings.TrimSpace(q.Domain) == "" {
		return nil, fmt.Errorf("query %q domain is empty", q.ID)
	}

	pageSize := q.pageSizeValue()

	var findings []domain.Finding
	for page := 1; page <= q.maxPagesValue(); page++ {
		payload, err := r.fetchPage(ctx, q, page, pageSize)
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

// fetchPage dispatches to the leak list endpoint matching the query's leak type.
func (r *domainRunner) fetchPage(ctx context.Context, q Query, page, pageSize int) (map[string]any, error) {
	params := leakradar.DomainLeaksParams{Page: page, PageSize: pageSize}
	switch leakradar.LeakType(q.LeakType) {
	case leakradar.LeakTypeCustomers:
		return r.api.GetDomainCustomers(ctx, q.Domain, params)
	case leakradar.LeakTypeEmployees:
		return r.api.GetDomainEmployees(ctx, q.Domain, params)
	case leakradar.LeakTypeThirdParties:
		return r.api.GetDomainThirdParties(ctx, q.Domain, params)
	default:
		return nil, fmt.Errorf("unsupported leak_type %q", q.LeakType)
	}
}
