// Package adminclient mirrors the server's admin session on the client side.
// A local Cache holds an optimistic hint; the session cookie, checked by the
// server's verify endpoint, is authoritative. Whenever the two disagree the
// server wins and the cache is cleared.
//
// State is a three-valued machine (unknown, authenticated, unauthenticated)
// so "loading" and "authenticated" can never both hold.
package adminclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Server endpoints and the session cookie name.
const (
	loginPath  = "/api/admin/login"
	verifyPath = "/api/admin/verify"
	cookieName = "admin_token"
)

// State is the client's view of the admin session.
type State int

const (
	// StateUnknown: a verification is outstanding; render neither view.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Failure classes. Use errors.Is against the error returned by Login,
// Logout, Mount or Verify.
var (
	ErrAuthFailed = errors.New("authentication failed")
	ErrServer     = errors.New("server error")
	ErrNetwork    = errors.New("network error")
)

// Error is the structured failure returned by the client. Reason carries
// the server's "error" field when there was one.
type Error struct {
	Op     string
	Status int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// authResponse is the JSON body of the login and verify endpoints.
type authResponse struct {
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// Client talks to the admin endpoints and tracks the resulting State.
// Safe for concurrent use; results are applied in completion order.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	cache   Cache

	// applyMu serializes state transitions together with their cache
	// writes and listener calls.
	applyMu sync.Mutex

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for requests. A cookie jar is added to a copy of
// hc when it has none, since the session lives in a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a client for the site at baseURL. The state starts unknown
// until Mount, Login or Logout settles it.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: 15 * time.Second},
		cache:     NewMemoryCache(),
		state:     StateUnknown,
		listeners: map[int]func(State){},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// State returns the current state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsLoading reports whether the state is still unknown.
func (c *Client) IsLoading() bool {
	return c.State() == StateUnknown
}

// IsAuthenticated reports whether the server last confirmed the session.
func (c *Client) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn runs on the goroutine that applied the change and must not
// call Mount, Verify, Login or Logout synchronously.
func (c *Client) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// apply moves to next and updates the cache: store when snap is non-nil,
// clear otherwise. Listeners hear about actual changes only.
func (c *Client) apply(next State, snap *Snapshot) error {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	var cacheErr error
	switch {
	case snap != nil:
		cacheErr = c.cache.Store(*snap)
	case next == StateUnauthenticated:
		cacheErr = c.cache.Clear()
	}

	c.mu.Lock()
	changed := c.state != next
	c.state = next
	var listeners []func(State)
	if changed {
		for _, fn := range c.listeners {
			listeners = append(listeners, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return cacheErr
}

// Mount reconciles the cached hint with the server. Without a hint the
// client is unauthenticated and no request is made. With one, the state is
// unknown until the verify endpoint answers; anything but a confirmed
// session, including a network failure, clears the cache.
func (c *Client) Mount(ctx context.Context) error {
	snap, err := c.cache.Load()
	if err != nil || !snap.Authenticated {
		return c.apply(StateUnauthenticated, nil)
	}
	return c.verify(ctx, snap)
}

// Verify asks the server about the session cookie in the jar whatever the
// cache says, and applies the answer the same way Mount does.
func (c *Client) Verify(ctx context.Context) error {
	snap, err := c.cache.Load()
	if err != nil {
		snap = Snapshot{}
	}
	return c.verify(ctx, snap)
}

func (c *Client) verify(ctx context.Context, snap Snapshot) error {
	c.apply(StateUnknown, nil)

	resp, err := c.do(ctx, http.MethodGet, verifyPath, "")
	if err != nil {
		c.apply(StateUnauthenticated, nil)
		return &Error{Op: "verify", Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if resp.status == http.StatusOK && resp.body.Authenticated {
		snap.Authenticated = true
		return c.apply(StateAuthenticated, &snap)
	}
	c.apply(StateUnauthenticated, nil)
	if resp.status >= 500 {
		return &Error{Op: "verify", Status: resp.status, Reason: resp.body.Error, Err: ErrServer}
	}
	return nil
}

// Login presents secret to the login endpoint. On success the session
// cookie lands in the client's jar, the cache is set and the state becomes
// authenticated. Any failure leaves the client unauthenticated and returns
// an *Error wrapping ErrAuthFailed, ErrServer or ErrNetwork.
func (c *Client) Login(ctx context.Context, secret string) error {
	resp, err := c.do(ctx, http.MethodPost, loginPath, secret)
	if err != nil {
		c.apply(StateUnauthenticated, nil)
		return &Error{Op: "login", Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	switch {
	case resp.status == http.StatusOK && resp.body.Authenticated:
		return c.apply(StateAuthenticated, &Snapshot{Authenticated: true, Token: secret})
	case resp.status >= 500:
		c.apply(StateUnauthenticated, nil)
		return &Error{Op: "login", Status: resp.status, Reason: resp.body.Error, Err: ErrServer}
	default:
		c.apply(StateUnauthenticated, nil)
		return &Error{Op: "login", Status: resp.status, Reason: resp.body.Error, Err: ErrAuthFailed}
	}
}

// Logout asks the server to revoke the session, then clears the cache and
// becomes unauthenticated whatever the outcome. The returned error only
// reports a failed revoke.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, loginPath, "")
	if err != nil {
		// The server never saw the request; drop the cookie locally.
		c.forgetCookie()
	}
	applyErr := c.apply(StateUnauthenticated, nil)

	switch {
	case err != nil:
		return &Error{Op: "logout", Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	case resp.status != http.StatusOK:
		return &Error{Op: "logout", Status: resp.status, Reason: resp.body.Error, Err: ErrServer}
	}
	return applyErr
}

// forgetCookie expires the session cookie in the jar.
func (c *Client) forgetCookie() {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: cookieName, Path: "/", MaxAge: -1}})
}

type response struct {
	status int
	body   authResponse
}

// do sends one request. bearer, when set, goes into the Authorization
// header. Transport failures are returned as errors; HTTP error statuses
// are not.
func (c *Client) do(ctx context.Context, method, path, bearer string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	out := &response{status: res.StatusCode}
	data, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return nil, err
	}
	// Non-JSON bodies (proxies, HTML error pages) leave the zero value.
	_ = json.Unmarshal(data, &out.body)
	return out, nil
}
