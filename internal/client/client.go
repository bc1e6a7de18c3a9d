// Package client is the app's handle to the DanceVerse backend: auth, the
// videos and leaderboard tables, and the videos storage bucket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"go.uber.org/zap"
)

// APIError is a rejection returned by the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

var ErrNotSignedIn = errors.New("not signed in")

type AuthEvent string

const (
	SignedIn  AuthEvent = "SIGNED_IN"
	SignedOut AuthEvent = "SIGNED_OUT"
)

type AuthListener func(event AuthEvent, session *domain.Session)

// Subscription is returned by OnAuthStateChange.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops notifications. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	tokens  TokenStore
	log     *zap.Logger

	mu        sync.Mutex
	listeners map[int]AuthListener
	nextID    int
}

func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		http:      http.DefaultClient,
		tokens:    &MemoryTokenStore{},
		log:       zap.NewNop(),
		listeners: map[int]AuthListener{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OnAuthStateChange registers l for sign in and sign out notifications.
func (c *Client) OnAuthStateChange(l AuthListener) *Subscription {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return &Subscription{cancel: func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}}
}

func (c *Client) notify(event AuthEvent, session *domain.Session) {
	c.mu.Lock()
	ls := make([]AuthListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		l(event, session)
	}
}

func (c *Client) accessToken() (string, error) {
	s, err := c.tokens.Load()
	if err != nil {
		return "", err
	}
	if s == nil || s.AccessToken == "" {
		return "", ErrNotSignedIn
	}
	return s.AccessToken, nil
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	authed      bool
}

func (c *Client) jsonRequest(method, path string, v any, authed bool) (request, error) {
	req := request{method: method, path: path, authed: authed}
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return req, err
		}
		req.body = bytes.NewReader(b)
		req.contentType = "application/json"
	}
	return req, nil
}

// do sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("apikey", c.anonKey)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.authed {
		token, err := c.accessToken()
		if err != nil {
			return err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("backend call",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body domain.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func objectPath(bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(parts, "/")
}
