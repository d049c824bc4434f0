// Package jenkins implements a minimal read-only client for the Jenkins JSON
// status API, exposing only the endpoints the probes consume.
package jenkins

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Options configures transport behavior for a Client.
type Options struct {
	Timeout time.Duration
	// Insecure accepts self-signed TLS certificates.
	Insecure bool
	// UseProxy honors the standard proxy environment variables. When false
	// (the default) the request goes direct even if HTTP_PROXY is set.
	UseProxy bool
	Username string
	APIToken string
}

// Client wraps the Jenkins REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	apiToken   string
}

// NewClient creates a Jenkins API client for the given base URL.
func NewClient(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: opts.Insecure}, //nolint:gosec // G402: monitoring must work with self-signed certs
		DisableKeepAlives: true,
	}
	if opts.UseProxy {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   opts.Username,
		apiToken:   opts.APIToken,
	}
}

// BaseURL returns the configured server address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Computers retrieves the status of every agent attached to the server.
func (c *Client) Computers(ctx context.Context) ([]Computer, error) {
	path := "/computer/api/json?tree=computer[displayName,offline,temporarilyOffline,offlineCauseReason,executors[idle]]"
	var set computerSet
	if err := c.getJSON(ctx, path, &set); err != nil {
		return nil, err
	}
	return set.Computer, nil
}

// QueueItems retrieves the current build queue.
func (c *Client) QueueItems(ctx context.Context) ([]QueueItem, error) {
	var q queue
	if err := c.getJSON(ctx, "/queue/api/json?tree=items[id,inQueueSince,stuck,why]", &q); err != nil {
		return nil, err
	}
	return q.Items, nil
}

// Jobs retrieves the job summaries from the server root.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var list jobList
	if err := c.getJSON(ctx, "/api/json?tree=jobs[name,color]", &list); err != nil {
		return nil, err
	}
	return list.Jobs, nil
}

// getJSON performs a GET and decodes the JSON response. Transport failures
// (including non-2xx statuses) surface as *TransportError, malformed bodies
// as *DecodeError.
func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{URL: url, Err: fmt.Errorf("status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}
