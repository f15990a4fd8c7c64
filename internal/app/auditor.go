package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leakradar-hq/leakradar-go/internal/config"
	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/internal/logger"
	"github.com/leakradar-hq/leakradar-go/pkg/leakradar"
	"github.com/leakradar-hq/leakradar-go/pkg/queries"
)

// Auditor runs every enabled query once, logs a findings summary, and writes
// CSV exports for queries that ask for one. It is the one-shot counterpart
// of the watcher and never touches the seen-findings storage.
type Auditor struct {
	cfg      *config.Config
	queryReg *queries.ConfigRegistry
	runners  queries.RunnerRegistry
	client   *leakradar.Client
	log      logger.Logger
}

// NewAuditor builds an auditor runtime from config files.
func NewAuditor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Auditor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := newAPIClient(cfg, log)
	if err := checkProfile(ctx, client, log); err != nil {
		client.Close()
		return nil, err
	}

	queryReg, err := queries.LoadRegistry(cfg.QueriesFile)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("load queries registry: %w", err)
	}

	return &Auditor{
		cfg:      cfg,
		queryReg: queryReg,
		runners:  queries.DefaultRunnerRegistry(client),
		client:   client,
		log:      log,
	}, nil
}

// Run executes a single audit pass across all enabled queries.
func (a *Auditor) Run(ctx context.Context) error {
	if a == nil || a.runners == nil {
		return fmt.Errorf("auditor is not initialized")
	}
	defer a.client.Close()

	qs := a.queryReg.Enabled()
	if len(qs) == 0 {
		return fmt.Errorf("no queries enabled")
	}

	start := time.Now()
	a.log.InfoObj("audit pass started", "audit_meta", map[string]any{
		"queries_count": len(qs),
		"export_dir":    a.cfg.ExportDir,
	})

	var errs []error
	for _, q := range qs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if err := a.auditQuery(ctx, q); err != nil {
			errs = append(errs, err)
			a.log.ErrorObj("query audit failed", "query_error", map[string]any{
				"query_id": q.ID,
				"error":    err.Error(),
			})
		}
	}

	a.log.InfoObj("audit pass completed", "audit_meta", map[string]any{
		"queries_count": len(qs),
		"failures":      len(errs),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return errors.Join(errs...)
}

// auditQuery runs one query, optionally unlocking findings and exporting CSV.
func (a *Auditor) auditQuery(ctx context.Context, q queries.Query) error {
	runner, err := a.runners.RunnerFor(q)
	if err != nil {
		return fmt.Errorf("resolve runner for query %s: %w", q.ID, err)
	}

	findings, err := runner.Run(ctx, q)
	if err != nil {
		return fmt.Errorf("run query %s: %w", q.ID, err)
	}

	a.log.InfoObj("query audit completed", "query_result", map[string]any{
		"query_id": q.ID,
		"findings": len(findings),
	})

	if q.Unlock {
		a.unlockFindings(ctx, q, findings)
	}
	if q.Export {
		if err := a.exportQuery(ctx, q); err != nil {
			return fmt.Errorf("export query %s: %w", q.ID, err)
		}
	}
	return nil
}

// unlockFindings spends unlock credits on the audited findings. Unlock
// failures are logged but do not fail the audit.
func (a *Auditor) unlockFindings(ctx context.Context, q queries.Query, findings []domain.Finding) {
	ids := make([]int64, 0, len(findings))
	for _, f := range findings {
		if f.LeakID > 0 {
			ids = append(ids, f.LeakID)
		}
	}
	if q.MaxUnlock > 0 && len(ids) > q.MaxUnlock {
		ids = ids[:q.MaxUnlock]
	}
	if len(ids) == 0 {
		return
	}

	unlocked, err := a.client.UnlockLeaks(ctx, ids)
	if err != nil {
		a.log.WarnObj("unlock failed", "unlock_error", map[string]any{
			"query_id": q.ID,
			"error":    err.Error(),
		})
		return
	}
	a.log.InfoObj("leaks unlocked", "unlock_result", map[string]any{
		"query_id":  q.ID,
		"requested": len(ids),
		"unlocked":  len(unlocked),
	})
}

// exportQuery fetches the CSV snapshot for the query and writes it under the
// export directory with a timestamped name.
func (a *Auditor) exportQuery(ctx context.Context, q queries.Query) error {
	data, err := a.exportCSV(ctx, q)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.csv", q.ID, time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(a.cfg.ExportDir, name)
	// Exports can contain plaintext credentials, keep them owner-readable.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	a.log.InfoObj("query export written", "export_meta", map[string]any{
		"query_id": q.ID,
		"path":     path,
		"bytes":    len(data),
	})
	return nil
}

// exportCSV picks the export endpoint matching the query type.
func (a *Auditor) exportCSV(ctx context.Context, q queries.Query) ([]byte, error) {
	switch q.Type {
	case queries.TypeAdvanced:
		return a.client.ExportAdvanced(ctx, q.Filters.APIFilters())
	case queries.TypeDomain:
		return a.client.ExportDomainLeaks(ctx, q.Domain, leakradar.LeakType(q.LeakType), false)
	case queries.TypeEmail:
		return a.client.ExportEmailLeaks(ctx, q.Email)
	default:
		return nil, fmt.Errorf("unsupported query type %q", q.Type)
	}
}
