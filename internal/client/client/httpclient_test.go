package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL)
}

func TestHTTPClient_GetDocument(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/documents/abc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"uuid":"abc","content":"ct","last_modified":80}`)
	})

	doc, err := c.GetDocument(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, &RemoteDocument{ID: "abc", Ciphertext: "ct", LastModified: 80}, doc)
}

func TestHTTPClient_PutDocument(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/documents/abc", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"content": "sealed"}, body)

		_, _ = io.WriteString(w, `{"last_modified":123}`)
	})

	lm, err := c.PutDocument(context.Background(), "abc", "sealed")
	require.NoError(t, err)
	assert.Equal(t, int64(123), lm)
}

func TestHTTPClient_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
		msg      string
	}{
		{"not found", http.StatusNotFound, `{"error":"document not found"}`, true, "document not found"},
		{"bad request", http.StatusBadRequest, `{"error":"invalid id"}`, false, "invalid id"},
		{"no body", http.StatusInternalServerError, ``, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GetDocument(context.Background(), "x")
			require.ErrorIs(t, err, ErrRejected)
			assert.NotErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))

			var re *RejectedError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.Status)
			assert.Equal(t, tt.msg, re.Message)
		})
	}
}

func TestHTTPClient_MalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	})

	_, err := c.PutDocument(context.Background(), "x", "y")
	require.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewHTTPClient(addr)
	_, err := c.GetDocument(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrRejected)

	_, err = c.PutDocument(context.Background(), "x", "y")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestHTTPClient_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })

	c := NewHTTPClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.GetDocument(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Ping(t *testing.T) {
	var status atomic.Value
	status.Store("OK")
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"`+status.Load().(string)+`"}`)
	})

	require.NoError(t, c.Ping(context.Background()))
	status.Store("DEGRADED")
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
	require.NoError(t, c.Close())
}

func TestNewHTTPClient_BaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", NewHTTPClient("localhost:8080").baseURL)
	assert.Equal(t, "https://docs.example", NewHTTPClient("https://docs.example/").baseURL)
}
