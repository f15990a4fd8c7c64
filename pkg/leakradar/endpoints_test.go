package leakradar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// capturedRequest records what the fake API actually received.
type capturedRequest struct {
	method string
	path   string
	query  url.Values
	body   []byte
}

func newCaptureServer(t *testing.T, contentType string, payload []byte) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.Query()
		captured.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", contentType)
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestSearchAdvancedOmitsAbsentFilters(t *testing.T) {
	srv, captured := newCaptureServer(t, "application/json", []byte(`{}`))
	client := New(WithBaseURL(srv.URL))
	defer client.Close()

	_, err := client.SearchAdvanced(context.Background(), AdvancedSearchParams{
		AdvancedFilters: AdvancedFilters{Username: String("a@b.com")},
	})
	if err != nil {
		t.Fatalf("SearchAdvanced: %v", err)
	}

	want := map[string]string{
		"page":               "1",
		"page_size":          "100",
		"show_only_unlocked": "false",
		"show_only_locked":   "false",
		"username":           "a@b.com",
	}
	if len(captured.query) != len(want) {
		t.Fatalf("query has %d keys %v, want exactly %d", len(captured.query), captured.query, len(want))
	}
	for key, val := range want {
		if got := captured.query.Get(key); got != val {
			t.Fatalf("query[%s] = %q, want %q", key, got, val)
		}
	}
}

func TestSearchAdvancedSendsSetFilters(t *testing.T) {
	srv, captured := newCaptureServer(t, "application/json", []byte(`{}`))
	client := New(WithBaseURL(srv.URL))
	defer client.Close()

	_, err := client.SearchAdvanced(context.Background(), AdvancedSearchParams{
		AdvancedFilters: AdvancedFilters{
			URLDomain:        String("example.com"),
			URLPort:          Int(8443),
			IsEmail:          Bool(true),
			PasswordStrength: Int(2),
		},
		Page:           3,
		PageSize:       25,
		ShowOnlyLocked: true,
	})
	if err != nil {
		t.Fatalf("SearchAdvanced: %v", err)
	}

	checks := map[string]string{
		"page":              "3",
		"page_size":         "25",
		"show_only_locked":  "true",
		"url_domain":        "example.com",
		"url_port":          "8443",
		"is_email":          "true",
		"password_strength": "2",
	}
	for key, val := range checks {
		if got := captured.query.Get(key); got != val {
			t.Fatalf("query[%s] = %q, want %q", key, got, val)
		}
	}
	if captured.query.Has("username") {
		t.Fatalf("absent username filter leaked into query: %v", captured.query)
	}
}

func TestEndpointRoutes(t *testing.T) {
	ctx := context.Background()
	jsonObj := []byte(`{}`)
	jsonList := []byte(`[]`)
	csvBody := []byte("a,b\n1,2\n")

	cases := []struct {
		name        string
		call        func(*Client) error
		wantMethod  string
		wantPath    string
		contentType string
		payload     []byte
		wantQuery   map[string]string
		absentQuery []string
	}{
		{
			name:       "profile",
			call:       func(c *Client) error { _, err := c.GetProfile(ctx); return err },
			wantMethod: http.MethodGet, wantPath: "/profile",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name: "advanced search",
			call: func(c *Client) error {
				_, err := c.SearchAdvanced(ctx, AdvancedSearchParams{})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/advanced",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name: "advanced unlock",
			call: func(c *Client) error {
				_, err := c.UnlockAdvanced(ctx, AdvancedFilters{}, Int(25))
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/search/advanced/unlock",
			contentType: "application/json", payload: jsonList,
			wantQuery: map[string]string{"max": "25"},
		},
		{
			name: "advanced export",
			call: func(c *Client) error {
				_, err := c.ExportAdvanced(ctx, AdvancedFilters{Username: String("u")})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/advanced/export",
			contentType: "text/csv", payload: csvBody,
			wantQuery:   map[string]string{"username": "u"},
			absentQuery: []string{"page", "page_size"},
		},
		{
			name:       "domain report",
			call:       func(c *Client) error { _, err := c.GetDomainReport(ctx, "example.com"); return err },
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name: "domain customers",
			call: func(c *Client) error {
				_, err := c.GetDomainCustomers(ctx, "example.com", DomainLeaksParams{})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/customers",
			contentType: "application/json", payload: jsonObj,
			wantQuery:   map[string]string{"page": "1", "page_size": "100"},
			absentQuery: []string{"search"},
		},
		{
			name: "domain employees",
			call: func(c *Client) error {
				_, err := c.GetDomainEmployees(ctx, "example.com", DomainLeaksParams{Search: String("smith")})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/employees",
			contentType: "application/json", payload: jsonObj,
			wantQuery: map[string]string{"search": "smith"},
		},
		{
			name: "domain third parties",
			call: func(c *Client) error {
				_, err := c.GetDomainThirdParties(ctx, "example.com", DomainLeaksParams{})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/third_parties",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name: "domain subdomains",
			call: func(c *Client) error {
				_, err := c.GetDomainSubdomains(ctx, "example.com", ListParams{Page: 2})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/subdomains",
			contentType: "application/json", payload: jsonObj,
			wantQuery: map[string]string{"page": "2", "page_size": "100"},
		},
		{
			name:       "subdomains export",
			call:       func(c *Client) error { _, err := c.ExportDomainSubdomains(ctx, "example.com"); return err },
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/subdomains/export",
			contentType: "text/csv", payload: csvBody,
		},
		{
			name: "domain urls",
			call: func(c *Client) error {
				_, err := c.GetDomainURLs(ctx, "example.com", ListParams{})
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/urls",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name:       "urls export",
			call:       func(c *Client) error { _, err := c.ExportDomainURLs(ctx, "example.com"); return err },
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/urls/export",
			contentType: "text/csv", payload: csvBody,
		},
		{
			name: "domain leaks export",
			call: func(c *Client) error {
				_, err := c.ExportDomainLeaks(ctx, "example.com", LeakTypeEmployees, true)
				return err
			},
			wantMethod: http.MethodGet, wantPath: "/search/domain/example.com/employees/export",
			contentType: "text/csv", payload: csvBody,
			wantQuery: map[string]string{"only_usernames": "true"},
		},
		{
			name: "domain leaks unlock",
			call: func(c *Client) error {
				_, err := c.UnlockDomainLeaks(ctx, "example.com", LeakTypeCustomers, String("smith"), Int(10))
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/search/domain/example.com/customers/unlock",
			contentType: "application/json", payload: jsonList,
			wantQuery: map[string]string{"search": "smith", "max": "10"},
		},
		{
			name: "email search",
			call: func(c *Client) error {
				_, err := c.SearchEmail(ctx, "ceo@example.com", EmailSearchParams{})
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/search/email",
			contentType: "application/json", payload: jsonObj,
		},
		{
			name:       "email export",
			call:       func(c *Client) error { _, err := c.ExportEmailLeaks(ctx, "ceo@example.com"); return err },
			wantMethod: http.MethodGet, wantPath: "/search/email/export",
			contentType: "text/csv", payload: csvBody,
			wantQuery: map[string]string{"email": "ceo@example.com"},
		},
		{
			name: "email unlock",
			call: func(c *Client) error {
				_, err := c.UnlockEmailLeaks(ctx, "ceo@example.com", EmailSearchParams{}, nil)
				return err
			},
			wantMethod: http.MethodPost, wantPath: "/search/email/unlock",
			contentType: "application/json", payload: jsonList,
			absentQuery: []string{"max"},
		},
		{
			name:       "specific unlock",
			call:       func(c *Client) error { _, err := c.UnlockLeaks(ctx, []int64{1}); return err },
			wantMethod: http.MethodPost, wantPath: "/unlock",
			contentType: "application/json", payload: jsonList,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, captured := newCaptureServer(t, tc.contentType, tc.payload)
			client := New(WithBaseURL(srv.URL))
			defer client.Close()

			if err := tc.call(client); err != nil {
				t.Fatalf("call: %v", err)
			}
			if captured.method != tc.wantMethod {
				t.Fatalf("method = %s, want %s", captured.method, tc.wantMethod)
			}
			if captured.path != tc.wantPath {
				t.Fatalf("path = %s, want %s", captured.path, tc.wantPath)
			}
			for key, val := range tc.wantQuery {
				if got := captured.query.Get(key); got != val {
					t.Fatalf("query[%s] = %q, want %q", key, got, val)
				}
			}
			for _, key := range tc.absentQuery {
				if captured.query.Has(key) {
					t.Fatalf("query[%s] should be absent, got %q", key, captured.query.Get(key))
				}
			}
		})
	}
}

func TestUnlockLeaksSendsIDsBody(t *testing.T) {
	srv, captured := newCaptureServer(t, "application/json", []byte(`[]`))
	client := New(WithBaseURL(srv.URL))
	defer client.Close()

	if _, err := client.UnlockLeaks(context.Background(), []int64{12345, 67890}); err != nil {
		t.Fatalf("UnlockLeaks: %v", err)
	}

	var body struct {
		LeakIDs []int64 `json:"leak_ids"`
	}
	if err := json.Unmarshal(captured.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.LeakIDs) != 2 || body.LeakIDs[0] != 12345 || body.LeakIDs[1] != 67890 {
		t.Fatalf("unexpected leak_ids %v", body.LeakIDs)
	}
}

func TestSearchEmailSendsVisibilityFlags(t *testing.T) {
	srv, captured := newCaptureServer(t, "application/json", []byte(`{}`))
	client := New(WithBaseURL(srv.URL))
	defer client.Close()

	_, err := client.SearchEmail(context.Background(), "ceo@example.com", EmailSearchParams{ShowOnlyUnlocked: true})
	if err != nil {
		t.Fatalf("SearchEmail: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(captured.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["email"] != "ceo@example.com" {
		t.Fatalf("email = %v", body["email"])
	}
	if body["show_only_unlocked"] != true {
		t.Fatalf("show_only_unlocked = %v", body["show_only_unlocked"])
	}
	// The locked flag is always present, even when false.
	if v, ok := body["show_only_locked"]; !ok || v != false {
		t.Fatalf("show_only_locked missing or wrong: %v", body)
	}
}

func TestUnlockAdvancedSendsOnlySetFilters(t *testing.T) {
	srv, captured := newCaptureServer(t, "application/json", []byte(`[]`))
	client := New(WithBaseURL(srv.URL))
	defer client.Close()

	filters := AdvancedFilters{
		URLDomain:        String("example.com"),
		PasswordStrength: Int(1),
	}
	if _, err := client.UnlockAdvanced(context.Background(), filters, nil); err != nil {
		t.Fatalf("UnlockAdvanced: %v", err)
	}
	if captured.query.Has("max") {
		t.Fatalf("max should be absent when unset, query: %v", captured.query)
	}

	var body map[string]any
	if err := json.Unmarshal(captured.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("filter body should carry exactly the set fields, got %v", body)
	}
	if body["url_domain"] != "example.com" || body["password_strength"] != float64(1) {
		t.Fatalf("unexpected filter body %v", body)
	}
}

func TestRequiredArgumentsValidatedBeforeDispatch(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(WithBaseURL(srv.URL))
	defer client.Close()
	ctx := context.Background()

	if _, err := client.GetDomainReport(ctx, "   "); err == nil {
		t.Fatalf("expected error for blank domain")
	}
	if _, err := client.SearchEmail(ctx, "", EmailSearchParams{}); err == nil {
		t.Fatalf("expected error for empty email")
	}
	if _, err := client.ExportDomainLeaks(ctx, "example.com", LeakType("partners"), false); err == nil {
		t.Fatalf("expected error for unknown leak type")
	}
	if called {
		t.Fatalf("validation failures must not reach the API")
	}
}
