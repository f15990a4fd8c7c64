package queries

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/leakradar-hq/leakradar-go/internal/domain"
)

// recordKeys are the payload keys that may carry the result list, in lookup order.
var recordKeys = []string{"results", "leaks", "data", "items"}

// recordsFromPage extracts the result records from one API response page.
func recordsFromPage(payload map[string]any) []map[string]any {
	if len(payload) == 0 {
		return nil
	}
	for _, key := range recordKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			continue
		}
		records := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if record, ok := entry.(map[string]any); ok {
				records = append(records, record)
			}
		}
		return records
	}
	return nil
}

// findingsFromRecords converts raw result records into findings.
func findingsFromRecords(records []map[string]any) []domain.Finding {
	findings := make([]domain.Finding, 0, len(records))
	for _, record := range records {
		findings = append(findings, findingFromRecord(record))
	}
	return findings
}

// findingFromRecord promotes the identity fields of a raw record. The full
// record rides along untouched in Raw.
func findingFromRecord(record map[string]any) domain.Finding {
	leakID := int64Field(record, "id", "leak_id")
	return domain.Finding{
		ID:       findingID(record, leakID),
		LeakID:   leakID,
		Username: stringField(record, "username", "email", "user"),
		Origin:   stringField(record, "origin", "url", "source"),
		Raw:      record,
	}
}

// findingID derives a stable dedup identity. Records that carry a numeric
// leak id use it directly; anything else falls back to a content hash.
func findingID(record map[string]any, leakID int64) string {
	if leakID > 0 {
		return "leak:" + strconv.FormatInt(leakID, 10)
	}
	return "hash:" + hashRecord(record)
}

// hashRecord hashes a record in stable key order.
func hashRecord(record map[string]any) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha1.New() //nolint:gosec // non-cryptographic id generation
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		val, err := json.Marshal(record[k])
		if err != nil {
			h.Write([]byte("?"))
		} else {
			h.Write(val)
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// stringField returns the first non-empty string value among keys.
func stringField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		if val, ok := raw.(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// int64Field returns the first numeric value among keys, tolerating the
// float64 form JSON decoding produces.
func int64Field(record map[string]any, keys ...string) int64 {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		switch val := raw.(type) {
		case float64:
			return int64(val)
		case int64:
			return val
		case int:
			return int64(val)
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}
