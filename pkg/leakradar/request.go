package leakradar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// request runs one call through the pipeline: attach context, query, and
// body; execute; classify failures; decode the success payload. The result
// is either raw CSV bytes (for text/csv responses) or the decoded JSON value.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.DebugObj("api call completed", "api_call", map[string]any{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if resp.IsError() {
		return nil, classify(resp.StatusCode(), resp.Body())
	}

	if isCSVContentType(resp.Header().Get("Content-Type")) {
		return resp.Body(), nil
	}

	var out any
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return out, nil
}

func isCSVContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/csv")
}

// getObject issues a GET expecting a JSON object payload.
func (c *Client) getObject(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	out, err := c.request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return asObject(out)
}

// postObject issues a POST expecting a JSON object payload.
func (c *Client) postObject(ctx context.Context, path string, query url.Values, body any) (map[string]any, error) {
	out, err := c.request(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return nil, err
	}
	return asObject(out)
}

// postList issues a POST expecting a JSON array of objects (unlock results).
func (c *Client) postList(ctx context.Context, path string, query url.Values, body any) ([]map[string]any, error) {
	out, err := c.request(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return nil, err
	}
	return asObjectList(out)
}

// getCSV issues a GET expecting a CSV export payload.
func (c *Client) getCSV(ctx context.Context, path string, query url.Values) ([]byte, error) {
	out, err := c.request(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return asCSV(out)
}

func asObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload %T (want JSON object)", v)
	}
	return obj, nil
}

func asObjectList(v any) ([]map[string]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload %T (want JSON array)", v)
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected element %d in response array: %T (want JSON object)", i, item)
		}
		out = append(out, obj)
	}
	return out, nil
}

func asCSV(v any) ([]byte, error) {
	blob, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload %T (want text/csv export)", v)
	}
	return blob, nil
}
