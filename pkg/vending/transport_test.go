package vending

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/apkcrawl/apkcrawl-cli/internal/errors"
	"github.com/apkcrawl/apkcrawl-cli/pkg/models"
	"github.com/apkcrawl/apkcrawl-cli/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T) (*Transport, *[]time.Duration) {
	t.Helper()
	tr := NewTransport(models.NetworkConfig{}, utils.NewLogger(io.Discard, utils.LogLevelError))
	var sleeps []time.Duration
	tr.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	tr.unit = time.Second
	return tr, &sleeps
}

func TestGetBacksOffOnRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr, sleeps := newTestTransport(t)
	resp, err := tr.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("ok"), resp.Body)

	// First retry is immediate, then the wait doubles.
	assert.Equal(t, []time.Duration{0, 2 * time.Second, 4 * time.Second}, *sleeps)
	assert.Equal(t, 4, calls)
}

func TestGetServiceUnavailableIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr, sleeps := newTestTransport(t)
	_, err := tr.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrServiceUnavailable)
	assert.Empty(t, *sleeps)
}

func TestGetConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	tr, _ := newTestTransport(t)
	_, err := tr.Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestGetHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	tr, _ := newTestTransport(t)
	tr.sleep = func(time.Duration) { cancel() }

	_, err := tr.Get(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTransport)
}

func TestPostFormDoesNotRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "value", r.PostForm.Get("key"))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr, sleeps := newTestTransport(t)
	resp, err := tr.PostForm(context.Background(), srv.URL, nil, url.Values{"key": {"value"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestGetSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GoogleLogin auth=tok", r.Header.Get("Authorization"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr, _ := newTestTransport(t)
	headers := http.Header{}
	headers.Set("Authorization", "GoogleLogin auth=tok")
	_, err := tr.Get(context.Background(), srv.URL, headers)
	require.NoError(t, err)
}

func TestStreamDeliversBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload-bytes"))
	}))
	defer srv.Close()

	tr, _ := newTestTransport(t)
	body, size, err := tr.Stream(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "payload-bytes", string(data))
	assert.Equal(t, int64(len("payload-bytes")), size)
}
