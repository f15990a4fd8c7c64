package queries

import "github.com/leakradar-hq/leakradar-go/pkg/leakradar"

// QueryFilters mirrors the advanced search filters in config file form.
// Absent keys stay nil and are omitted from the outgoing request.
type QueryFilters struct {
	Username         *string `json:"username" yaml:"username"`
	Password         *string `json:"password" yaml:"password"`
	URLDomain        *string `json:"url_domain" yaml:"url_domain"`
	URLHost          *string `json:"url_host" yaml:"url_host"`
	URLScheme        *string `json:"url_scheme" yaml:"url_scheme"`
	URLPort          *int    `json:"url_port" yaml:"url_port"`
	URLTLD           *string `json:"url_tld" yaml:"url_tld"`
	IsEmail          *bool   `json:"is_email" yaml:"is_email"`
	EmailDomain      *string `json:"email_domain" yaml:"email_domain"`
	EmailHost        *string `json:"email_host" yaml:"email_host"`
	EmailTLD         *string `json:"email_tld" yaml:"email_tld"`
	PasswordStrength *int    `json:"password_strength" yaml:"password_strength"`
}

// Empty reports whether no filter field is set.
func (f *QueryFilters) Empty() bool {
	if f == nil {
		return true
	}
	return f.Username == nil && f.Password == nil &&
		f.URLDomain == nil && f.URLHost == nil && f.URLScheme == nil &&
		f.URLPort == nil && f.URLTLD == nil && f.IsEmail == nil &&
		f.EmailDomain == nil && f.EmailHost == nil && f.EmailTLD == nil &&
		f.PasswordStrength == nil
}

// APIFilters converts the config filters into the client's filter set.
func (f *QueryFilters) APIFilters() leakradar.AdvancedFilters {
	if f == nil {
		return leakradar.AdvancedFilters{}
	}
	return leakradar.AdvancedFilters{
		Username:         f.Username,
		Password:         f.Password,
		URLDomain:        f.URLDomain,
		URLHost:          f.URLHost,
		URLScheme:        f.URLScheme,
		URLPort:          f.URLPort,
		URLTLD:           f.URLTLD,
		IsEmail:          f.IsEmail,
		EmailDomain:      f.EmailDomain,
		EmailHost:        f.EmailHost,
		EmailTLD:         f.EmailTLD,
		PasswordStrength: f.PasswordStrength,
	}
}
