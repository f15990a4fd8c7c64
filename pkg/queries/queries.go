package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
)

const (
	// Supported query types.
	TypeAdvanced = "advanced"
	TypeDomain   = "domain"
	TypeEmail    = "email"

	defaultPageSize = 100
	defaultMaxPages = 1
)

// configFile represents the structure of the queries configuration file.
type configFile struct {
	Queries []Query `json:"queries" yaml:"queries"`
}

// Query is a single saved search declared in config files. Depending on Type
// it targets the advanced search, a domain leak list, or a single email.
type Query struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Type     string        `json:"type" yaml:"type"`
	Enabled  *bool         `json:"enabled" yaml:"enabled"`
	PageSize int           `json:"page_size" yaml:"page_size"`
	MaxPages int           `json:"max_pages" yaml:"max_pages"`
	Domain   string        `json:"domain" yaml:"domain"`
	LeakType string        `json:"leak_type" yaml:"leak_type"`
	Email    string        `json:"email" yaml:"email"`
	Filters  *QueryFilters `json:"filters" yaml:"filters"`

	// Unlock asks the watch pipeline to unlock new findings, up to MaxUnlock
	// per run when positive. Export marks the query for CSV export runs.
	Unlock    bool `json:"unlock" yaml:"unlock"`
	MaxUnlock int  `json:"max_unlock" yaml:"max_unlock"`
	Export    bool `json:"export" yaml:"export"`
}

// ConfigRegistry materializes query definitions loaded from config files.
type ConfigRegistry struct {
	mu      sync.RWMutex
	queries []Query
	idx     map[string]Query
}

// LoadRegistry loads the query registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("queries file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}

	fileReg, err := parseQueryRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Queries) == 0 {
		return nil, errors.New("queries file contains no queries entries")
	}

	reg := &ConfigRegistry{
		queries: make([]Query, len(fileReg.Queries)),
		idx:     make(map[string]Query, len(fileReg.Queries)),
	}

	for i := range fileReg.Queries {
		q := sanitizeQuery(fileReg.Queries[i])
		if err := validateQuery(q); err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}
		if _, exists := reg.idx[q.ID]; exists {
			return nil, fmt.Errorf("duplicate query id %q", q.ID)
		}
		reg.queries[i] = q
		reg.idx[q.ID] = q
	}

	return reg, nil
}

// parseQueryRegistry attempts to decode the queries file content.
func parseQueryRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalQueryRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("queries file format not recognized (expected YAML or JSON)")
}

// unmarshalQueryRegistry decodes the queries file using the provided function.
func unmarshalQueryRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s queries: %w", name, err)
	}
	return reg, nil
}

// sanitizeQuery trims and normalizes the query fields.
func sanitizeQuery(q Query) Query {
	q.ID = strings.TrimSpace(q.ID)
	q.Name = strings.TrimSpace(q.Name)
	q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	q.Domain = strings.TrimSpace(q.Domain)
	q.LeakType = strings.ToLower(strings.TrimSpace(q.LeakType))
	q.Email = strings.TrimSpace(q.Email)

	if q.Enabled == nil {
		def := true
		q.Enabled = &def
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.MaxPages <= 0 {
		q.MaxPages = defaultMaxPages
	}
	if q.Type == TypeDomain && q.LeakType == "" {
		q.LeakType = string(leakradar.LeakTypeEmployees)
	}

	return q
}

// validateQuery checks that required fields are present for the query type.
func validateQuery(q Query) error {
	if q.ID == "" {
		return errors.New("id is required")
	}
	switch q.Type {
	case TypeAdvanced:
		if q.Filters == nil || q.Filters.Empty() {
			return fmt.Errorf("filters are required for query %q", q.ID)
		}
	case TypeDomain:
		if q.Domain == "" {
			return fmt.Errorf("domain is required for query %q", q.ID)
		}
		switch leakradar.LeakType(q.LeakType) {
		case leakradar.LeakTypeEmployees, leakradar.LeakTypeCustomers, leakradar.LeakTypeThirdParties:
		default:
			return fmt.Errorf("unsupported leak_type %q for query %q", q.LeakType, q.ID)
		}
	case TypeEmail:
		if q.Email == "" {
			return fmt.Errorf("email is required for query %q", q.ID)
		}
	case "":
		return fmt.Errorf("type is required for query %q", q.ID)
	default:
		return fmt.Errorf("unsupported type %q for query %q", q.Type, q.ID)
	}
	return nil
}

// ByID returns the query config by id.
func (r *ConfigRegistry) ByID(id string) (Query, bool) {
	if r == nil {
		return Query{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Query{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.idx[id]
	return q, ok
}

// All returns all configured queries.
func (r *ConfigRegistry) All() []Query {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Query, len(r.queries))
	copy(out, r.queries)
	return out
}

// Enabled returns queries that are enabled.
func (r *ConfigRegistry) Enabled() []Query {
	if r == nil {
		return nil
	}

	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Query, 0, len(all))
	for _, q := range all {
		if q.EnabledValue() {
			out = append(out, q)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (q Query) EnabledValue() bool {
	if q.Enabled == nil {
		return true
	}
	return *q.Enabled
}

// pageSizeValue returns the page size with the registry default as fallback.
func (q Query) pageSizeValue() int {
	if q.PageSize <= 0 {
		return defaultPageSize
	}
	return q.PageSize
}

// maxPagesValue returns the page walk cap with the registry default as fallback.
func (q Query) maxPagesValue() int {
	if q.MaxPages <= 0 {
		return defaultMaxPages
	}
	return q.MaxPages
}
