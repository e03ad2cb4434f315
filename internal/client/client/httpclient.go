package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
)

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	opts    options
}

// NewHTTPClient returns a client for endpoint. A bare host:port is treated
// as http://host:port.
func NewHTTPClient(endpoint string, opts ...Option) *HTTPClient {
	o := buildOptions(opts)
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	return &HTTPClient{baseURL: strings.TrimRight(endpoint, "/"), http: hc, opts: o}
}

func (c *HTTPClient) GetDocument(ctx context.Context, id string) (*RemoteDocument, error) {
	var doc rpcx.Document
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	return &RemoteDocument{ID: doc.ID, Ciphertext: doc.Content, LastModified: doc.LastModified}, nil
}

func (c *HTTPClient) PutDocument(ctx context.Context, id string, ciphertext string) (int64, error) {
	var resp rpcx.PutDocumentResponse
	req := rpcx.PutDocumentRequest{Content: ciphertext}
	if err := c.do(ctx, http.MethodPut, "/documents/"+url.PathEscape(id), req, &resp); err != nil {
		return 0, err
	}
	return resp.LastModified, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp rpcx.PingResponse
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &resp); err != nil {
		return err
	}
	if resp.Status != rpcx.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e rpcx.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		return &RejectedError{Status: resp.StatusCode, Message: e.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RejectedError{Status: http.StatusBadGateway, Message: "malformed response: " + err.Error()}
	}
	return nil
}
