package sinks

import (
	"time"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
)

// Alert represents the payload delivered downstream for one new finding.
type Alert struct {
	QueryID   string         `json:"query_id"`
	QueryName string         `json:"query_name"`
	Finding   domain.Finding `json:"finding"`
	SentAt    time.Time      `json:"sent_at"`
}

// NewAlert constructs an Alert for the given query + finding.
func NewAlert(queryID, queryName string, finding domain.Finding) Alert {
	return Alert{
		QueryID:   queryID,
		QueryName: queryName,
		Finding:   finding,
		SentAt:    time.Now().UTC(),
	}
}
