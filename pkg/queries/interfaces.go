package queries

import (
	"context"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

// API is the slice of the leakradar client surface the runners depend on.
// *leakradar.Client satisfies it.
type API interface {
	SearchAdvanced(ctx context.Context, params leakradar.AdvancedSearchParams) (map[string]any, error)
	GetDomainCustomers(ctx context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error)
	GetDomainEmployees(ctx context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error)
	GetDomainThirdParties(ctx context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error)
	SearchEmail(ctx context.Context, email string, params leakradar.EmailSearchParams) (map[string]any, error)
}

// Runner executes a saved query and extracts its findings.
// Concrete implementations live in type-specific files (e.g., advanced.go).
type Runner interface {
	Type() string
	Run(ctx context.Context, q Query) ([]domain.Finding, error)
}

// RunnerRegistry resolves the runner implementation for a given query config.
type RunnerRegistry interface {
	RunnerFor(q Query) (Runner, error)
}
