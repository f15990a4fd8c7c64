package leakradar

import (
	"net/url"
	"strconv"
)

const (
	defaultPage     = 1
	defaultPageSize = 100
)

// String returns a pointer to v, for optional filter fields.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional filter fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional filter fields.
func Bool(v bool) *bool { return &v }

// LeakType selects a categorized leak list within a domain report.
type LeakType string

const (
	LeakTypeEmployees    LeakType = "employees"
	LeakTypeCustomers    LeakType = "customers"
	LeakTypeThirdParties LeakType = "third_parties"
)

// AdvancedFilters narrows an advanced search. Nil fields are absent: they are
// omitted from queries and from the JSON filter body entirely, never sent as
// empty values.
type AdvancedFilters struct {
	Username         *string `json:"username,omitempty"`
	Password         *string `json:"password,omitempty"`
	URLDomain        *string `json:"url_domain,omitempty"`
	URLHost          *string `json:"url_host,omitempty"`
	URLScheme        *string `json:"url_scheme,omitempty"`
	URLPort          *int    `json:"url_port,omitempty"`
	URLTLD           *string `json:"url_tld,omitempty"`
	IsEmail          *bool   `json:"is_email,omitempty"`
	EmailDomain      *string `json:"email_domain,omitempty"`
	EmailHost        *string `json:"email_host,omitempty"`
	EmailTLD         *string `json:"email_tld,omitempty"`
	PasswordStrength *int    `json:"password_strength,omitempty"`
}

// apply adds the set filters to q.
func (f AdvancedFilters) apply(q url.Values) {
	setString(q, "username", f.Username)
	setString(q, "password", f.Password)
	setString(q, "url_domain", f.URLDomain)
	setString(q, "url_host", f.URLHost)
	setString(q, "url_scheme", f.URLScheme)
	setInt(q, "url_port", f.URLPort)
	setString(q, "url_tld", f.URLTLD)
	setBool(q, "is_email", f.IsEmail)
	setString(q, "email_domain", f.EmailDomain)
	setString(q, "email_host", f.EmailHost)
	setString(q, "email_tld", f.EmailTLD)
	setInt(q, "password_strength", f.PasswordStrength)
}

func (f AdvancedFilters) values() url.Values {
	q := url.Values{}
	f.apply(q)
	return q
}

// AdvancedSearchParams parameterizes SearchAdvanced. Page and PageSize fall
// back to 1 and 100 when zero; the visibility flags are always sent.
type AdvancedSearchParams struct {
	AdvancedFilters

	Page             int
	PageSize         int
	ShowOnlyUnlocked bool
	ShowOnlyLocked   bool
}

func (p AdvancedSearchParams) values() url.Values {
	q := url.Values{}
	setPagination(q, p.Page, p.PageSize)
	q.Set("show_only_unlocked", strconv.FormatBool(p.ShowOnlyUnlocked))
	q.Set("show_only_locked", strconv.FormatBool(p.ShowOnlyLocked))
	p.AdvancedFilters.apply(q)
	return q
}

// DomainLeaksParams parameterizes the categorized domain leak lists
// (customers, employees, third parties).
type DomainLeaksParams struct {
	Page             int
	PageSize         int
	Search           *string
	ShowOnlyUnlocked bool
	ShowOnlyLocked   bool
}

func (p DomainLeaksParams) values() url.Values {
	q := url.Values{}
	setPagination(q, p.Page, p.PageSize)
	setString(q, "search", p.Search)
	q.Set("show_only_unlocked", strconv.FormatBool(p.ShowOnlyUnlocked))
	q.Set("show_only_locked", strconv.FormatBool(p.ShowOnlyLocked))
	return q
}

// ListParams parameterizes the plain paginated domain listings
// (subdomains, URLs).
type ListParams struct {
	Page     int
	PageSize int
	Search   *string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	setPagination(q, p.Page, p.PageSize)
	setString(q, "search", p.Search)
	return q
}

// EmailSearchParams carries the visibility flags for email search and unlock.
type EmailSearchParams struct {
	ShowOnlyUnlocked bool
	ShowOnlyLocked   bool
}

func setPagination(q url.Values, page, pageSize int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
}

func setString(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}
