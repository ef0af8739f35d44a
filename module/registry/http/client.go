package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/WS-QA/OSSGadget/module/registry/http/modifier"
)

// StatusError is returned when a registry answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.URL)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client is a util for the GET traffic registry backends issue.
// Every request sent through Do is counted per URL.
type Client struct {
	modifiers []modifier.Modifier
	client    *http.Client
	attempts  *sync.Map // url -> *atomic.Int64, shared by clients derived with With
}

// NewClient creates an instance of Client.
// A retrying standard client is used if c is nil.
// Modifiers modify the request before sending it.
func NewClient(c *http.Client, modifiers ...modifier.Modifier) *Client {
	client := &Client{
		client:   c,
		attempts: &sync.Map{},
	}
	if client.client == nil {
		client.client = NewStandardClient()
	}
	if len(modifiers) > 0 {
		client.modifiers = modifiers
	}
	return client
}

// With returns a client sharing the transport and attempt counters of c
// with extra modifiers appended.
func (c *Client) With(modifiers ...modifier.Modifier) *Client {
	if len(modifiers) == 0 {
		return c
	}
	mods := make([]modifier.Modifier, 0, len(c.modifiers)+len(modifiers))
	mods = append(mods, c.modifiers...)
	mods = append(mods, modifiers...)
	return &Client{modifiers: mods, client: c.client, attempts: c.attempts}
}

// Do ...
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for _, modifier := range c.modifiers {
		if err := modifier.Modify(req); err != nil {
			return nil, err
		}
	}
	c.count(req.URL.String())
	return c.client.Do(req)
}

// Open issues a GET and returns the response for a 2xx status. The caller
// must close the body. Other statuses come back as *StatusError.
func (c *Client) Open(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

// Get returns the full body of a successful GET.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Attempts returns how many requests were sent for url.
func (c *Client) Attempts(url string) int64 {
	v, ok := c.attempts.Load(url)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// TotalAttempts returns the number of requests sent through the client.
func (c *Client) TotalAttempts() int64 {
	var total int64
	c.attempts.Range(func(_, v any) bool {
		total += v.(*atomic.Int64).Load()
		return true
	})
	return total
}

func (c *Client) count(url string) {
	v, _ := c.attempts.LoadOrStore(url, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}
