package leakradar

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type emailSearchRequest struct {
	Email            string `json:"email"`
	ShowOnlyUnlocked bool   `json:"show_only_unlocked"`
	ShowOnlyLocked   bool   `json:"show_only_locked"`
}

type unlockLeaksRequest struct {
	LeakIDs []int64 `json:"leak_ids"`
}

// GetProfile returns the authenticated account profile, including plan and
// unlock quota information.
func (c *Client) GetProfile(ctx context.Context) (map[string]any, error) {
	return c.getObject(ctx, "/profile", nil)
}

// SearchAdvanced runs a multi-filter search over the leak corpus and returns
// one result page.
func (c *Client) SearchAdvanced(ctx context.Context, params AdvancedSearchParams) (map[string]any, error) {
	return c.getObject(ctx, "/search/advanced", params.values())
}

// UnlockAdvanced unlocks every leak matching the filters, up to maxLeaks when
// set. Unlocking consumes account credits; the returned list reflects what
// the service actually unlocked, which may be a subset.
func (c *Client) UnlockAdvanced(ctx context.Context, filters AdvancedFilters, maxLeaks *int) ([]map[string]any, error) {
	q := url.Values{}
	setInt(q, "max", maxLeaks)
	return c.postList(ctx, "/search/advanced/unlock", q, filters)
}

// ExportAdvanced exports every leak matching the filters as CSV.
func (c *Client) ExportAdvanced(ctx context.Context, filters AdvancedFilters) ([]byte, error) {
	return c.getCSV(ctx, "/search/advanced/export", filters.values())
}

// GetDomainReport returns aggregated leak statistics for a domain.
func (c *Client) GetDomainReport(ctx context.Context, domain string) (map[string]any, error) {
	path, err := domainPath(domain, "")
	if err != nil {
		return nil, err
	}
	return c.getObject(ctx, path, nil)
}

// GetDomainCustomers returns one page of customer leaks for a domain.
func (c *Client) GetDomainCustomers(ctx context.Context, domain string, params DomainLeaksParams) (map[string]any, error) {
	return c.domainLeakList(ctx, domain, LeakTypeCustomers, params)
}

// GetDomainEmployees returns one page of employee leaks for a domain.
func (c *Client) GetDomainEmployees(ctx context.Context, domain string, params DomainLeaksParams) (map[string]any, error) {
	return c.domainLeakList(ctx, domain, LeakTypeEmployees, params)
}

// GetDomainThirdParties returns one page of third-party leaks for a domain.
func (c *Client) GetDomainThirdParties(ctx context.Context, domain string, params DomainLeaksParams) (map[string]any, error) {
	return c.domainLeakList(ctx, domain, LeakTypeThirdParties, params)
}

func (c *Client) domainLeakList(ctx context.Context, domain string, leakType LeakType, params DomainLeaksParams) (map[string]any, error) {
	path, err := domainPath(domain, string(leakType))
	if err != nil {
		return nil, err
	}
	return c.getObject(ctx, path, params.values())
}

// GetDomainSubdomains returns one page of leaked subdomains for a domain.
func (c *Client) GetDomainSubdomains(ctx context.Context, domain string, params ListParams) (map[string]any, error) {
	path, err := domainPath(domain, "subdomains")
	if err != nil {
		return nil, err
	}
	return c.getObject(ctx, path, params.values())
}

// ExportDomainSubdomains exports a domain's leaked subdomains as CSV.
func (c *Client) ExportDomainSubdomains(ctx context.Context, domain string) ([]byte, error) {
	path, err := domainPath(domain, "subdomains/export")
	if err != nil {
		return nil, err
	}
	return c.getCSV(ctx, path, nil)
}

// GetDomainURLs returns one page of leaked URLs for a domain.
func (c *Client) GetDomainURLs(ctx context.Context, domain string, params ListParams) (map[string]any, error) {
	path, err := domainPath(domain, "urls")
	if err != nil {
		return nil, err
	}
	return c.getObject(ctx, path, params.values())
}

// ExportDomainURLs exports a domain's leaked URLs as CSV.
func (c *Client) ExportDomainURLs(ctx context.Context, domain string) ([]byte, error) {
	path, err := domainPath(domain, "urls/export")
	if err != nil {
		return nil, err
	}
	return c.getCSV(ctx, path, nil)
}

// ExportDomainLeaks exports one categorized leak list of a domain as CSV.
// With onlyUsernames the export is restricted to the username column.
func (c *Client) ExportDomainLeaks(ctx context.Context, domain string, leakType LeakType, onlyUsernames bool) ([]byte, error) {
	if err := validateLeakType(leakType); err != nil {
		return nil, err
	}
	path, err := domainPath(domain, string(leakType)+"/export")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("only_usernames", strconv.FormatBool(onlyUsernames))
	return c.getCSV(ctx, path, q)
}

// UnlockDomainLeaks unlocks leaks in one categorized list of a domain,
// optionally narrowed by a search term and capped at maxLeaks. Unlocking
// consumes account credits.
func (c *Client) UnlockDomainLeaks(ctx context.Context, domain string, leakType LeakType, search *string, maxLeaks *int) ([]map[string]any, error) {
	if err := validateLeakType(leakType); err != nil {
		return nil, err
	}
	path, err := domainPath(domain, string(leakType)+"/unlock")
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	setString(q, "search", search)
	setInt(q, "max", maxLeaks)
	return c.postList(ctx, path, q, nil)
}

// SearchEmail returns the leak summary for a specific email address.
func (c *Client) SearchEmail(ctx context.Context, email string, params EmailSearchParams) (map[string]any, error) {
	body, err := newEmailSearchRequest(email, params)
	if err != nil {
		return nil, err
	}
	return c.postObject(ctx, "/search/email", nil, body)
}

// ExportEmailLeaks exports all leaks of an email address as CSV.
func (c *Client) ExportEmailLeaks(ctx context.Context, email string) ([]byte, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	q := url.Values{}
	q.Set("email", email)
	return c.getCSV(ctx, "/search/email/export", q)
}

// UnlockEmailLeaks unlocks leaks of an email address, capped at maxLeaks when
// set. Unlocking consumes account credits.
func (c *Client) UnlockEmailLeaks(ctx context.Context, email string, params EmailSearchParams, maxLeaks *int) ([]map[string]any, error) {
	body, err := newEmailSearchRequest(email, params)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	setInt(q, "max", maxLeaks)
	return c.postList(ctx, "/search/email/unlock", q, body)
}

// UnlockLeaks unlocks the given leak IDs. Unlocking consumes account credits;
// the returned list reflects what the service actually unlocked.
func (c *Client) UnlockLeaks(ctx context.Context, leakIDs []int64) ([]map[string]any, error) {
	return c.postList(ctx, "/unlock", nil, unlockLeaksRequest{LeakIDs: leakIDs})
}

func newEmailSearchRequest(email string, params EmailSearchParams) (emailSearchRequest, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return emailSearchRequest{}, errors.New("email is required")
	}
	return emailSearchRequest{
		Email:            email,
		ShowOnlyUnlocked: params.ShowOnlyUnlocked,
		ShowOnlyLocked:   params.ShowOnlyLocked,
	}, nil
}

func domainPath(domain, suffix string) (string, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return "", errors.New("domain is required")
	}
	path := "/search/domain/" + url.PathEscape(domain)
	if suffix != "" {
		path += "/" + suffix
	}
	return path, nil
}

func validateLeakType(leakType LeakType) error {
	switch leakType {
	case LeakTypeEmployees, LeakTypeCustomers, LeakTypeThirdParties:
		return nil
	default:
		return fmt.Errorf("unsupported leak type %q", string(leakType))
	}
}
