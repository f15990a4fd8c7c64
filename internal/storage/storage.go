package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the local dedup ledger abstraction.

// Store tracks finding IDs that have already been alerted on.
type Store interface {
	Close() error
	SeenFinding(id string) (bool, error)
	MarkFinding(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	FindingTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultFindingTTL      = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.FindingTTL <= 0 {
		opts.FindingTTL = defaultFindingTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) SeenFinding(string) (bool, error) { return false, nil }
func (noopStore) MarkFinding(string) error         { return nil }
