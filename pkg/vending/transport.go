package vending

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
)

// Response carries the status and body of one backend exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport wraps an HTTP client with the backend's rate limit
// protocol: GET requests back off and retry on 429, treat 503 as a
// fatal block signal, and surface connection failures as transport
// errors. POST requests never retry.
type Transport struct {
	client *http.Client
	log    utils.Logger

	// sleep and unit are swapped out in tests.
	sleep func(time.Duration)
	unit  time.Duration
}

// NewTransport builds a Transport with explicit connect and read
// timeouts from the network configuration.
func NewTransport(cfg models.NetworkConfig, log utils.Logger) *Transport {
	connect := time.Duration(cfg.ConnectTimeout) * time.Second
	if connect <= 0 {
		connect = 30 * time.Second
	}
	read := time.Duration(cfg.ReadTimeout) * time.Second
	if read <= 0 {
		read = 60 * time.Second
	}

	return &Transport{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   connect,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   connect,
				ResponseHeaderTimeout: read,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		log:   log,
		sleep: time.Sleep,
		unit:  time.Second,
	}
}

// Get performs a rate-limit-aware GET. On 429 it sleeps and doubles
// the wait, starting from zero so the first retry is immediate. A 503
// means the backend has blocked this client and no retry can help.
func (t *Transport) Get(ctx context.Context, rawURL string, headers http.Header) (*Response, error) {
	var wait time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewTransport("request cancelled", err)
		}

		resp, err := t.do(ctx, http.MethodGet, rawURL, headers, "", nil)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			t.log.Warn("rate limited, backing off %s: %s", wait, rawURL)
			t.sleep(wait)
			if wait < t.unit {
				wait = t.unit
			}
			wait *= 2
			continue
		case http.StatusServiceUnavailable:
			return nil, errors.NewServiceUnavailable(
				"service unavailable, the server is likely blocking this client")
		}
		return resp, nil
	}
}

// PostForm performs a single form-encoded POST. Rate limit responses
// are not retried; posts carry side effects the caller must control.
func (t *Transport) PostForm(ctx context.Context, rawURL string, headers http.Header, form url.Values) (*Response, error) {
	resp, err := t.do(ctx, http.MethodPost, rawURL, headers,
		"application/x-www-form-urlencoded; charset=UTF-8",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, errors.NewServiceUnavailable(
			"service unavailable, the server is likely blocking this client")
	}
	if resp.StatusCode >= 400 {
		t.log.Debug("post %s returned status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// Post performs a single POST with a raw body, used for the binary
// checkin and device-config payloads. Like PostForm it never retries.
func (t *Transport) Post(ctx context.Context, rawURL string, headers http.Header, contentType string, body []byte) (*Response, error) {
	resp, err := t.do(ctx, http.MethodPost, rawURL, headers, contentType, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, errors.NewServiceUnavailable(
			"service unavailable, the server is likely blocking this client")
	}
	if resp.StatusCode >= 400 {
		t.log.Debug("post %s returned status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// Stream opens a GET whose body is consumed by the caller, for large
// package payloads. The same backoff protocol as Get applies while
// obtaining the response headers.
func (t *Transport) Stream(ctx context.Context, rawURL string, headers http.Header) (io.ReadCloser, int64, error) {
	var wait time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, errors.NewTransport("request cancelled", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, 0, errors.NewTransport(fmt.Sprintf("invalid request URL %q", rawURL), err)
		}
		copyHeaders(req, headers)

		resp, err := t.client.Do(req)
		if err != nil {
			return nil, 0, errors.NewTransport(fmt.Sprintf("connection failed for %s", rawURL), err)
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			resp.Body.Close()
			t.log.Warn("rate limited, backing off %s: %s", wait, rawURL)
			t.sleep(wait)
			if wait < t.unit {
				wait = t.unit
			}
			wait *= 2
			continue
		case http.StatusServiceUnavailable:
			resp.Body.Close()
			return nil, 0, errors.NewServiceUnavailable(
				"service unavailable, the server is likely blocking this client")
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, 0, errors.NewTransport(
				fmt.Sprintf("download of %s failed with status %d", rawURL, resp.StatusCode), nil)
		}
		return resp.Body, resp.ContentLength, nil
	}
}

func (t *Transport) do(ctx context.Context, method, rawURL string, headers http.Header, contentType string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, errors.NewTransport(fmt.Sprintf("invalid request URL %q", rawURL), err)
	}
	copyHeaders(req, headers)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.NewTransport(fmt.Sprintf("connection failed for %s", rawURL), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransport(fmt.Sprintf("reading response from %s", rawURL), err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func copyHeaders(req *http.Request, headers http.Header) {
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
}
