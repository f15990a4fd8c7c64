package leakradar

import (
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/leakradar-hq/leakradar-go/pkg/httpclient"
)

const (
	// DefaultBaseURL is the production LeakRadar API endpoint.
	DefaultBaseURL = "https://api.leakradar.io"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "LeakRadar-Go-Client/" + Version
)

// Client is a session against the LeakRadar API. It owns its HTTP transport;
// the base URL, token, and identification header are fixed at construction.
type Client struct {
	http      *resty.Client
	log       Logger
	closeOnce sync.Once
}

type options struct {
	baseURL    string
	token      string
	userAgent  string
	timeout    time.Duration
	log        Logger
	httpClient *resty.Client
}

// Option customizes client construction.
type Option func(*options)

// WithToken sets the bearer token attached to every request. Without a token
// only the public endpoints are reachable and the API reports 401.
func WithToken(token string) Option {
	return func(o *options) { o.token = strings.TrimSpace(token) }
}

// WithBaseURL overrides the API endpoint, e.g. for a staging deployment.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if u := strings.TrimSpace(baseURL); u != "" {
			o.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithUserAgent overrides the identification string sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua := strings.TrimSpace(ua); ua != "" {
			o.userAgent = ua
		}
	}
}

// WithTimeout sets the transport timeout for the client-owned transport.
// It has no effect when a transport is supplied via WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for per-call debug logging.
func WithLogger(log Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient supplies a pre-configured resty transport. Its timeout and
// transport settings are left untouched; the client still applies the base
// URL, identification, and auth headers.
func WithHTTPClient(hc *resty.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New constructs a Client. All options are optional; the zero configuration
// talks to the production API anonymously with a 30s timeout.
func New(opts ...Option) *Client {
	o := options{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	hc := o.httpClient
	if hc == nil {
		hc = httpclient.NewRestyHTTPClient(o.timeout)
	}
	hc.SetBaseURL(o.baseURL)
	hc.SetHeader("User-Agent", o.userAgent)
	hc.SetHeader("Accept", "application/json")
	if o.token != "" {
		hc.SetAuthToken(o.token)
	}

	return &Client{
		http: hc,
		log:  ensureLogger(o.log),
	}
}

// BaseURL reports the endpoint the client was constructed against.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Close releases the client's transport. It must be called once per client
// when the session is no longer needed; repeated calls are no-ops.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.http.GetClient().CloseIdleConnections()
	})
}
