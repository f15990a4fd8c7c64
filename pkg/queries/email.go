package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

// emailRunner implements Runner for single-email lookups.
type emailRunner struct {
	api API
}

func NewEmailRunner(api API) Runner {
	return &emailRunner{api: api}
}

func (r *emailRunner) Type() string {
	return TypeEmail
}

func (r *emailRunner) Run(ctx context.Context, q Query) ([]domain.Finding, error) {
	if !strings.EqualFold(q.Type, TypeEmail) {
		return nil, fmt.Errorf("email runner received incompatible query type %q", q.Type)
	}
	if strings.TrimSpace(q.Email) == "" {
		return nil, fmt.Errorf("query %q email is empty", q.ID)
	}

	payload, err := r.api.SearchEmail(ctx, q.Email, leakradar.EmailSearchParams{})
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", q.ID, err)
	}

	return findingsFromRecords(recordsFromPage(payload)), nil
}
