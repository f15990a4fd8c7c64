package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
	"github.com/leakradar-hq/leakradar-go/internal/logger"
	"github.com/leakradar-hq/leakradar-go/internal/metrics"
	"github.com/leakradar-hq/leakradar-go/pkg/queries"
	"github.com/leakradar-hq/leakradar-go/pkg/sinks"
)

// Service coordinates one watch pass across the configured queries: run each
// query, drop findings that were already alerted on, optionally unlock the
// fresh ones, and fan the alerts out.
type Service struct {
	registry  queries.RunnerRegistry
	publisher AlertPublisher
	unlocker  Unlocker
	log       logger.Logger
	store     Deduper
}

// NewService wires a watch service with the query runner registry.
func NewService(reg queries.RunnerRegistry, publisher AlertPublisher, unlocker Unlocker, log logger.Logger, store Deduper) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		registry:  reg,
		publisher: publisher,
		unlocker:  unlocker,
		log:       log,
		store:     store,
	}
}

// Run executes a watch pass for all given queries.
func (s *Service) Run(ctx context.Context, qs []queries.Query) error {
	if s == nil || s.registry == nil {
		return fmt.Errorf("watch service is not initialized")
	}
	if s.publisher == nil {
		return fmt.Errorf("watch service has no alert publisher")
	}
	if len(qs) == 0 {
		return fmt.Errorf("no queries configured for watching")
	}

	errs := s.runAll(ctx, qs)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) runAll(ctx context.Context, qs []queries.Query) []error {
	errs := make([]error, 0, len(qs))

	for _, q := range qs {
		if ctx.Err() != nil {
			return errs
		}
		start := time.Now()
		err := s.runQuery(ctx, q)
		metrics.RecordQueryRun(q.ID, time.Since(start), err == nil)
		if err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("query watch failed", "query_error", map[string]any{
				"query_id": q.ID,
				"error":    err.Error(),
			})
		}
	}

	return errs
}

func (s *Service) runQuery(ctx context.Context, q queries.Query) error {
	runner, err := s.registry.RunnerFor(q)
	if err != nil {
		return fmt.Errorf("resolve runner for query %s: %w", q.ID, err)
	}

	findings, err := runner.Run(ctx, q)
	if err != nil {
		return fmt.Errorf("run query %s: %w", q.ID, err)
	}

	fresh := s.filterNewFindings(q, findings)
	metrics.RecordFindings(q.ID, len(findings), len(fresh))
	if len(fresh) == 0 {
		s.log.DebugObj("query produced no new findings", "query_result", map[string]any{
			"query_id":       q.ID,
			"findings_total": len(findings),
		})
		return nil
	}

	if q.Unlock {
		fresh = s.unlockFindings(ctx, q, fresh)
	}

	var errs []error
	published := 0
	for _, f := range fresh {
		alert := sinks.NewAlert(q.ID, q.Name, f)
		if _, err := s.publisher.Send(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("alert for finding %s: %w", f.ID, err))
			continue
		}
		published++
		if s.store != nil {
			if err := s.store.MarkFinding(f.ID); err != nil {
				s.log.WarnObj("finding mark failed", "dedup_error", map[string]any{
					"query_id":   q.ID,
					"finding_id": f.ID,
					"error":      err.Error(),
				})
			}
		}
	}
	metrics.RecordAlerts(q.ID, published)

	s.log.InfoObj("query watch completed", "query_result", map[string]any{
		"query_id":       q.ID,
		"findings_total": len(findings),
		"findings_new":   len(fresh),
		"alerts_sent":    published,
	})
	return errors.Join(errs...)
}

// filterNewFindings drops findings the dedup store has already seen. A failed
// lookup keeps the finding; a duplicate alert beats a silently dropped one.
func (s *Service) filterNewFindings(q queries.Query, findings []domain.Finding) []domain.Finding {
	if s.store == nil {
		return findings
	}

	fresh := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		seen, err := s.store.SeenFinding(f.ID)
		if err != nil {
			s.log.WarnObj("dedup lookup failed; keeping finding", "dedup_error", map[string]any{
				"query_id":   q.ID,
				"finding_id": f.ID,
				"error":      err.Error(),
			})
			fresh = append(fresh, f)
			continue
		}
		if seen {
			continue
		}
		fresh = append(fresh, f)
	}
	return fresh
}

// unlockFindings asks the API to unlock the fresh findings and merges the
// returned records back in. The service reports only what it actually
// unlocked; findings it skipped keep their locked record.
func (s *Service) unlockFindings(ctx context.Context, q queries.Query, findings []domain.Finding) []domain.Finding {
	if s.unlocker == nil {
		return findings
	}

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
		return findings
	}

	unlocked, err := s.unlocker.UnlockLeaks(ctx, ids)
	if err != nil {
		s.log.WarnObj("unlock failed; alerting with locked records", "unlock_error", map[string]any{
			"query_id": q.ID,
			"error":    err.Error(),
		})
		return findings
	}

	byID := make(map[int64]map[string]any, len(unlocked))
	for _, record := range unlocked {
		if id := unlockRecordID(record); id > 0 {
			byID[id] = record
		}
	}

	merged := 0
	for i := range findings {
		if record, ok := byID[findings[i].LeakID]; ok {
			findings[i].Raw = record
			merged++
		}
	}
	s.log.DebugObj("unlocked records merged", "unlock_result", map[string]any{
		"query_id":  q.ID,
		"requested": len(ids),
		"unlocked":  len(unlocked),
		"merged":    merged,
	})
	return findings
}

// unlockRecordID extracts the leak id from an unlock response record.
func unlockRecordID(record map[string]any) int64 {
	for _, key := range []string{"id", "leak_id"} {
		switch val := record[key].(type) {
		case float64:
			return int64(val)
		case int64:
			return val
		case int:
			return int64(val)
		}
	}
	return 0
}
