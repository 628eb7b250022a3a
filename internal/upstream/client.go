// Package upstream is the typed client for the LOGISAMB backend REST API.
// The portal owns no data: every record set, the dashboard summary and the
// user directory are fetched from here. Responses are decoded into typed
// structs and validated at this boundary; anything malformed becomes a
// FetchError instead of leaking zero values into aggregation.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps interactions with the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	onError    func(op string)
}

// NewClient constructs a new client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient overrides the transport, used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithErrorObserver registers a callback fired once per failed call,
// keyed by operation name. Used to feed the upstream error counter.
func (c *Client) WithErrorObserver(fn func(op string)) *Client {
	c.onError = fn
	return c
}

func (c *Client) observe(op string) {
	if c.onError != nil {
		c.onError(op)
	}
}

// Ping checks if the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe("ping")
		return fetchErr("ping", 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusInternalServerError {
		c.observe("ping")
		return fetchErr("ping", resp.StatusCode, fmt.Errorf("backend unavailable"))
	}
	return nil
}

// do issues a request and decodes the JSON body into out. A non-nil token is
// attached as a bearer credential. out may be nil for DELETE-style calls.
func (c *Client) do(ctx context.Context, op, method, path, token string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fetchErr(op, 0, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fetchErr(op, 0, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op)
		return fetchErr(op, 0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.observe(op)
		return fetchErr(op, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(detail))))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.observe(op)
		return shapeErr(op, err.Error())
	}
	return nil
}

// Date accepts both bare dates (2006-01-02) and RFC3339 timestamps; the
// backend is not consistent about which it emits.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unparseable date %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Amount tolerates numeric fields arriving either as JSON numbers or as
// numeric strings, which the backend mixes freely.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*a = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("unparseable amount %s: %w", data, err)
	}
	*a = Amount(v)
	return nil
}

// Float returns the plain float64 value.
func (a Amount) Float() float64 {
	return float64(a)
}
