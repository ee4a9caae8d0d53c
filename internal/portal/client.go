package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// successMarker appears in the portal landing page only after the SSO
// handshake succeeded ("course table hidden until evaluation done").
const successMarker = "未评价不可查看课表"

// Client owns the authenticated session against the evaluation service.
// Constructing it is cheap and side-effect free; the cookie jar and
// transport are built lazily on first use. All discovery and submission
// calls borrow the session read-only; only Login mutates it.
type Client struct {
	cfg      Config
	observer Observer

	readyOnce sync.Once
	readyErr  error
	http      *http.Client

	// loginMu keeps at most one login handshake in flight.
	loginMu sync.Mutex

	mu            sync.Mutex
	authenticated bool
}

// NewClient creates a portal client. No I/O happens until EnsureReady
// or the first call.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{cfg: cfg, observer: observer}
}

// EnsureReady builds the HTTP client exactly once. Concurrent callers
// share the same initialization.
func (c *Client) EnsureReady() error {
	c.readyOnce.Do(func() {
		jar, err := cookiejar.New(nil)
		if err != nil {
			c.readyErr = fmt.Errorf("creating cookie jar: %w", err)
			return
		}
		c.http = &http.Client{
			Jar:     jar,
			Timeout: c.cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: c.cfg.ConnectTimeout,
				}).DialContext,
				MaxIdleConnsPerHost: 10,
			},
		}
	})
	return c.readyErr
}

// Authenticated reports whether a login handshake has succeeded.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// Login performs the SSO handshake: fetch the login page for its
// execution token, then post the credentials with it. Network failures
// are retried a bounded number of times with backoff; rejected
// credentials and unrecognized pages are not.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidCredentials)
	}
	if err := c.EnsureReady(); err != nil {
		return err
	}

	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	var lastErr error
	attempts := 1 + c.cfg.LoginRetries
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ErrUnreachable
			case <-time.After(c.cfg.RetryBackoff << (i - 1)):
			}
		}

		err := c.loginOnce(ctx, username, password)
		if err == nil {
			c.mu.Lock()
			c.authenticated = true
			c.mu.Unlock()
			return nil
		}
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrProtocolMismatch) {
			return err
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, lastErr)
}

func (c *Client) loginOnce(ctx context.Context, username, password string) error {
	page, err := c.fetch(ctx, http.MethodGet, "sso_login_page", c.cfg.LoginURL, nil, "")
	if err != nil {
		return err
	}

	token, ok := executionToken(page)
	if !ok {
		return fmt.Errorf("%w: login page carries no execution token", ErrProtocolMismatch)
	}

	form := url.Values{
		"username":  {username},
		"password":  {password},
		"execution": {token},
		"_eventId":  {"submit"},
		"type":      {"username_password"},
		"submit":    {"LOGIN"},
	}
	body, err := c.fetch(ctx, http.MethodPost, "sso_login_submit", c.cfg.LoginURL,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return err
	}

	switch {
	case strings.Contains(body, successMarker):
		return nil
	case hasExecutionInput(body):
		// SSO re-rendered the login form: credentials were rejected.
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: post-login page not recognized", ErrProtocolMismatch)
	}
}

// fetch performs one HTTP exchange and returns the body as text,
// reporting the call to the observer.
func (c *Client) fetch(ctx context.Context, method, endpoint, rawURL string, body io.Reader, contentType string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.observer.OnCallComplete(CallEvent{Endpoint: endpoint, Method: method, LatencyMs: time.Since(start).Milliseconds(), Err: err})
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	event := CallEvent{Endpoint: endpoint, Method: method, Status: resp.StatusCode, LatencyMs: time.Since(start).Milliseconds(), Err: err}
	c.observer.OnCallComplete(event)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}
	return string(data), nil
}

// getJSON fetches an authorized JSON endpoint under the portal base URL.
// An HTML body on a JSON endpoint means the session bounced back to the
// login flow.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	body, err := c.fetch(ctx, http.MethodGet, endpoint, u, nil, "")
	if err != nil {
		return err
	}
	return decodeJSON(body, out)
}

// postJSON posts a JSON body to an authorized portal endpoint.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, payload, out any) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	body, err := c.fetch(ctx, http.MethodPost, endpoint, c.cfg.BaseURL+path,
		strings.NewReader(string(data)), "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(body, out)
}

func (c *Client) requireSession() error {
	if err := c.EnsureReady(); err != nil {
		return err
	}
	if !c.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func decodeJSON(body string, out any) error {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "<") {
		return ErrSessionLost
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolMismatch, err)
	}
	return nil
}

// executionToken extracts the value of <input name="execution"> from the
// SSO login page.
func executionToken(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}
	var token string
	var found bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.ElementNode && n.Data == "input" {
			var name, value string
			for _, a := range n.Attr {
				switch a.Key {
				case "name":
					name = a.Val
				case "value":
					value = a.Val
				}
			}
			if name == "execution" && value != "" {
				token, found = value, true
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return token, found
}

func hasExecutionInput(page string) bool {
	_, ok := executionToken(page)
	return ok
}
