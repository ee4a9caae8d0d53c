package portal

import (
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the remote evaluation service.
// The service host is fixed; overrides exist for tests and for the
// unlikely event of a portal migration, not as user-facing knobs.
type Config struct {
	BaseURL  string
	LoginURL string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// LoginRetries bounds re-attempts for unreachable SSO, not for
	// rejected credentials.
	LoginRetries int
	RetryBackoff time.Duration

	// PageSize used on list endpoints. The service paginates but a run
	// always wants everything.
	PageSize int

	UserAgent string
}

const defaultBaseURL = "https://spoc.buaa.edu.cn/pjxt/"

// DefaultConfig returns a Config with the production service endpoints.
func DefaultConfig() Config {
	cfg := Config{
		BaseURL:        defaultBaseURL,
		ConnectTimeout: 10 * time.Second,
		RequestTimeout: 30 * time.Second,
		LoginRetries:   3,
		RetryBackoff:   500 * time.Millisecond,
		PageSize:       999,
		UserAgent:      "autoeval/1.3",
	}
	cfg.LoginURL = loginURLFor(cfg.BaseURL)
	return cfg
}

// LoadConfig reads portal configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("AUTOEVAL_BASE_URL"); v != "" {
		cfg.BaseURL = v
		cfg.LoginURL = loginURLFor(v)
	}
	if v := os.Getenv("AUTOEVAL_LOGIN_URL"); v != "" {
		cfg.LoginURL = v
	}
	if v := os.Getenv("AUTOEVAL_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("AUTOEVAL_LOGIN_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.LoginRetries = n
		}
	}
	if v := os.Getenv("AUTOEVAL_RETRY_BACKOFF_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetryBackoff = time.Duration(n) * time.Millisecond
		}
	}

	return cfg
}

// loginURLFor builds the SSO entry URL that redirects back into the
// evaluation portal after a successful handshake.
func loginURLFor(base string) string {
	return "https://sso.buaa.edu.cn/login?service=" + url.QueryEscape(base) + "cas"
}
