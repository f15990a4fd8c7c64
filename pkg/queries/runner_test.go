package queries

import (
	"context"
	"fmt"
	"testing"

	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

type domainCall struct {
	leakType string
	domain   string
	params   leakradar.DomainLeaksParams
}

// fakeAPI serves canned result pages and records what the runners asked for.
type fakeAPI struct {
	pages         []map[string]any
	pageIdx       int
	advancedCalls []leakradar.AdvancedSearchParams
	domainCalls   []domainCall
	emailCalls    []string
	err           error
}

func (f *fakeAPI) nextPage() (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.pageIdx >= len(f.pages) {
		return map[string]any{"results": []any{}}, nil
	}
	page := f.pages[f.pageIdx]
	f.pageIdx++
	return page, nil
}

func (f *fakeAPI) SearchAdvanced(_ context.Context, params leakradar.AdvancedSearchParams) (map[string]any, error) {
	f.advancedCalls = append(f.advancedCalls, params)
	return f.nextPage()
}

func (f *fakeAPI) GetDomainCustomers(_ context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error) {
	f.domainCalls = append(f.domainCalls, domainCall{leakType: "customers", domain: domain, params: params})
	return f.nextPage()
}

func (f *fakeAPI) GetDomainEmployees(_ context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error) {
	f.domainCalls = append(f.domainCalls, domainCall{leakType: "employees", domain: domain, params: params})
	return f.nextPage()
}

func (f *fakeAPI) GetDomainThirdParties(_ context.Context, domain string, params leakradar.DomainLeaksParams) (map[string]any, error) {
	f.domainCalls = append(f.domainCalls, domainCall{leakType: "third_parties", domain: domain, params: params})
	return f.nextPage()
}

func (f *fakeAPI) SearchEmail(_ context.Context, email string, _ leakradar.EmailSearchParams) (map[string]any, error) {
	f.emailCalls = append(f.emailCalls, email)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return map[string]any{"leaks": []any{}}, nil
	}
	return f.pages[0], nil
}

// resultPage builds a payload with n records carrying sequential leak ids.
func resultPage(start, n int) map[string]any {
	records := make([]any, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, map[string]any{
			"id":       float64(start + i),
			"username": fmt.Sprintf("user%d@example.org", start+i),
			"origin":   "example-breach",
		})
	}
	return map[string]any{"results": records}
}

func TestAdvancedRunnerWalksPages(t *testing.T) {
	api := &fakeAPI{pages: []map[string]any{resultPage(1, 2), resultPage(3, 1)}}
	runner := NewAdvancedRunner(api)

	q := sanitizeQuery(Query{
		ID:       "weak",
		Type:     TypeAdvanced,
		PageSize: 2,
		MaxPages: 5,
		Filters:  &QueryFilters{EmailDomain: leakradar.String("example.org")},
	})

	findings, err := runner.Run(context.Background(), q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}
	if findings[0].ID != "leak:1" || findings[2].LeakID != 3 {
		t.Fatalf("unexpected findings %+v", findings)
	}

	// Short second page ends the walk before max_pages.
	if len(api.advancedCalls) != 2 {
		t.Fatalf("expected 2 pages fetched, got %d", len(api.advancedCalls))
	}
	if api.advancedCalls[0].Page != 1 || api.advancedCalls[1].Page != 2 {
		t.Fatalf("unexpected page sequence: %+v", api.advancedCalls)
	}
	if api.advancedCalls[0].PageSize != 2 {
		t.Fatalf("page size not propagated: %+v", api.advancedCalls[0])
	}
	if api.advancedCalls[0].EmailDomain == nil || *api.advancedCalls[0].EmailDomain != "example.org" {
		t.Fatalf("filters not propagated: %+v", api.advancedCalls[0])
	}
}

func TestAdvancedRunnerStopsOnEmptyPage(t *testing.T) {
	api := &fakeAPI{pages: []map[string]any{{"results": []any{}}}}
	runner := NewAdvancedRunner(api)

	q := sanitizeQuery(Query{
		ID:      "empty",
		Type:    TypeAdvanced,
		Filters: &QueryFilters{Username: leakradar.String("nobody")},
	})

	findings, err := runner.Run(context.Background(), q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %d", len(findings))
	}
	if len(api.advancedCalls) != 1 {
		t.Fatalf("expected a single page fetch, got %d", len(api.advancedCalls))
	}
}

func TestAdvancedRunnerRequiresFilters(t *testing.T) {
	runner := NewAdvancedRunner(&fakeAPI{})
	_, err := runner.Run(context.Background(), Query{ID: "bare", Type: TypeAdvanced})
	if err == nil {
		t.Fatalf("expected error for filterless query")
	}
}

func TestDomainRunnerSelectsLeakTypeEndpoint(t *testing.T) {
	for _, leakType := range []string{"customers", "employees", "third_parties"} {
		t.Run(leakType, func(t *testing.T) {
			api := &fakeAPI{pages: []map[string]any{resultPage(1, 1)}}
			runner := NewDomainRunner(api)

			q := sanitizeQuery(Query{ID: "corp", Type: TypeDomain, Domain: "example.com", LeakType: leakType})
			findings, err := runner.Run(context.Background(), q)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(findings))
			}
			if len(api.domainCalls) != 1 {
				t.Fatalf("expected 1 call, got %d", len(api.domainCalls))
			}
			call := api.domainCalls[0]
			if call.leakType != leakType || call.domain != "example.com" {
				t.Fatalf("wrong endpoint selected: %+v", call)
			}
			if call.params.Page != 1 || call.params.PageSize != 100 {
				t.Fatalf("unexpected paging params: %+v", call.params)
			}
		})
	}
}

func TestDomainRunnerRejectsUnknownLeakType(t *testing.T) {
	runner := NewDomainRunner(&fakeAPI{pages: []map[string]any{resultPage(1, 1)}})
	q := Query{ID: "corp", Type: TypeDomain, Domain: "example.com", LeakType: "partners", PageSize: 10, MaxPages: 1}
	if _, err := runner.Run(context.Background(), q); err == nil {
		t.Fatalf("expected error for unknown leak type")
	}
}

func TestEmailRunnerExtractsFindings(t *testing.T) {
	api := &fakeAPI{pages: []map[string]any{{
		"leaks": []any{
			map[string]any{"id": float64(77), "username": "ceo@example.com", "origin": "breach-a"},
		},
	}}}
	runner := NewEmailRunner(api)

	q := sanitizeQuery(Query{ID: "mailbox", Type: TypeEmail, Email: "ceo@example.com"})
	findings, err := runner.Run(context.Background(), q)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(findings) != 1 || findings[0].LeakID != 77 {
		t.Fatalf("unexpected findings %+v", findings)
	}
	if len(api.emailCalls) != 1 || api.emailCalls[0] != "ceo@example.com" {
		t.Fatalf("unexpected email calls %v", api.emailCalls)
	}
}

func TestRunnerRegistryResolvesByType(t *testing.T) {
	reg := DefaultRunnerRegistry(&fakeAPI{})

	for _, typ := range []string{TypeAdvanced, TypeDomain, TypeEmail} {
		runner, err := reg.RunnerFor(Query{ID: "q", Type: typ})
		if err != nil {
			t.Fatalf("RunnerFor(%s): %v", typ, err)
		}
		if runner.Type() != typ {
			t.Fatalf("RunnerFor(%s) returned %s runner", typ, runner.Type())
		}
	}

	if _, err := reg.RunnerFor(Query{ID: "q", Type: "wildcard"}); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
