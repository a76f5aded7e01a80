// Package restclient — типизированный клиент REST API платформы мастерских.
// Авторизация и обработка 401 выполняются транспортом (см. пакет transport),
// сам клиент только кодирует запросы и разбирает ответы.
package restclient

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

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
)

// Client обращается к REST API по базовому адресу вида http://host/api.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New создаёт клиент. rt — транспорт с цепочкой middleware, nil означает
// http.DefaultTransport. Нулевой timeout означает отсутствие ограничения.
func New(baseURL string, rt http.RoundTripper, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: rt, Timeout: timeout},
		log:        sl.OrDiscard(log),
	}
}

// BaseURL возвращает базовый адрес API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	token  string
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(r.body); err != nil {
			return nil, err
		}
		body = &buf
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return req, nil
}

// do выполняет запрос и декодирует успешный ответ в out (если out не nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	op := "restclient." + r.method + " " + r.path

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		c.log.Warn("failed to decode response", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

func escape(id string) string {
	return url.PathEscape(id)
}
