// Package api marshals calls to the games API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 3 * time.Second

// StatusError is returned when the API answers with an unexpected HTTP status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid response code %d from %s", e.Code, e.URL)
}

// Client issues authenticated requests against the games API. The zero value is
// not usable; construct one with New. A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURI    string
	user       string
	pass       string
	log        *slog.Logger
}

// New creates a Client for the given base URI using basic auth credentials.
func New(baseURI, user, pass string, log *slog.Logger) (*Client, error) {
	if baseURI == "" {
		return nil, errors.New("missing API base URI")
	}
	if user == "" || pass == "" {
		return nil, errors.New("cannot make api requests with missing credentials")
	}
	if log == nil {
		log = slog.Default()
	}
	log.Debug("initializing API client", slog.String("uri", baseURI))
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURI:    strings.TrimSuffix(baseURI, "/"),
		user:       user,
		pass:       pass,
		log:        log,
	}, nil
}

// Get fetches a resource and returns the raw JSON body. It fails on transport
// errors, on any status other than 200, and on an empty response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	apiURL := c.baseURI + leadingSlash(path)
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}
	c.log.Debug("making call to API", slog.String("url", apiURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", apiURL, err)
	}
	req.SetBasicAuth(c.user, c.pass)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting %s: %w", apiURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", apiURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, URL: apiURL}
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body from %s", apiURL)
	}

	c.log.Debug("completed request", slog.String("url", apiURL))
	return body, nil
}

// Post sends a JSON payload to a resource. Any non-2xx status is reported as a
// StatusError so callers can decide how to treat it.
func (c *Client) Post(ctx context.Context, path string, payload any) error {
	apiURL := c.baseURI + leadingSlash(path)
	c.log.Debug("posting to API", slog.String("url", apiURL))

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload for %s: %w", apiURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", apiURL, err)
	}
	req.SetBasicAuth(c.user, c.pass)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error posting to %s: %w", apiURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, URL: apiURL}
	}

	c.log.Debug("completed POST request", slog.String("url", apiURL))
	return nil
}

func leadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
