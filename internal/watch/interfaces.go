package watch

import (
	"context"

	"github.com/leakradar-hq/leakradar-go/pkg/sinks"
)

// AlertPublisher fans alerts out to downstream sinks and reports how many
// deliveries succeeded.
type AlertPublisher interface {
	Send(ctx context.Context, alert sinks.Alert) (int, error)
}

// Deduper tracks findings that were already alerted on.
type Deduper interface {
	SeenFinding(id string) (bool, error)
	MarkFinding(id string) error
}

// Unlocker reveals the plaintext records behind the given leak ids.
type Unlocker interface {
	UnlockLeaks(ctx context.Context, leakIDs []int64) ([]map[string]any, error)
}
