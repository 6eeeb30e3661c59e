// Package upstream is the REST client for the business API that owns the admin data.
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

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// WithBearer forwards the caller's credential to upstream calls made with ctx.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func bearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(ctxKey{}).(string)
	return token
}

// Client talks JSON to the upstream API. Non-2xx responses become *RemoteError.
type Client struct {
	baseURL      string
	serviceToken string
	http         *http.Client
	logger       *logrus.Entry
}

func NewClient(baseURL, serviceToken string, timeout time.Duration, logger *logrus.Entry) *Client {
	if logger == nil {
		logger = logrus.WithField("component", "upstream")
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		serviceToken: serviceToken,
		http:         &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// List fetches a collection and returns the raw JSON array of records.
// The array may be bare or wrapped under envelope, "data" or "items".
func (c *Client) List(ctx context.Context, path, envelope string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList(body, envelope)
}

func (c *Client) Create(ctx context.Context, path string, payload any) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/"+path, payload)
	return err
}

func (c *Client) Update(ctx context.Context, path, id string, payload any) error {
	_, err := c.do(ctx, http.MethodPut, c.baseURL+"/"+path+"/"+url.PathEscape(id), payload)
	return err
}

func (c *Client) Delete(ctx context.Context, path, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+path+"/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.credential(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "url": endpoint}).
			Warn("[Upstream] request failed")
		return nil, &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Status: resp.StatusCode, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("[Upstream] response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{Status: resp.StatusCode, Message: messageFromBody(body)}
	}
	return body, nil
}

func (c *Client) credential(ctx context.Context) string {
	if token := bearerFromContext(ctx); token != "" {
		return token
	}
	return c.serviceToken
}

func unwrapList(body []byte, envelope string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("[]"), nil
	}
	if trimmed[0] == '[' {
		return json.RawMessage(trimmed), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	for _, key := range []string{envelope, "data", "items"} {
		if key == "" {
			continue
		}
		if raw, ok := obj[key]; ok && !isNull(raw) {
			return raw, nil
		}
	}
	return json.RawMessage("[]"), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func messageFromBody(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
