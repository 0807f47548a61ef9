package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "desksync/internal/remote"

// TokenSource supplies the bearer token for a request, typically from the
// authentication session collaborator.
type TokenSource func(ctx context.Context) (string, error)

// Client is the HTTP client for a PostgREST-style relational store API.
type Client struct {
	baseURL string
	apiKey  string
	token   TokenSource
	httpc   *http.Client
	log     *slog.Logger

	tracer trace.Tracer
	calls  metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		log:     slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	meter := otel.Meter(tracerName)
	c.calls, _ = meter.Int64Counter(
		"remote_store_requests_total",
		metric.WithDescription("Total requests issued to the remote relational store"),
		metric.WithUnit("{request}"),
	)

	return c
}

func (c *Client) Select(ctx context.Context, q Query) ([]Row, error) {
	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	applyFilters(params, q.Filters)
	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, "/rest/v1/"+q.Table, params, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeRows(body)
}

func (c *Client) Insert(ctx context.Context, table string, rows []Row, returning bool) ([]Row, error) {
	prefer := "return=minimal"
	if returning {
		prefer = "return=representation"
	}
	body, err := c.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, rows, prefer)
	if err != nil {
		return nil, err
	}
	if !returning {
		return nil, nil
	}
	return decodeRows(body)
}

func (c *Client) Update(ctx context.Context, table string, patch Row, filters []Filter, returning bool) ([]Row, error) {
	params := url.Values{}
	applyFilters(params, filters)
	prefer := "return=minimal"
	if returning {
		prefer = "return=representation"
	}
	body, err := c.do(ctx, http.MethodPatch, "/rest/v1/"+table, params, patch, prefer)
	if err != nil {
		return nil, err
	}
	if !returning {
		return nil, nil
	}
	return decodeRows(body)
}

func (c *Client) Delete(ctx context.Context, table string, filters []Filter) error {
	params := url.Values{}
	applyFilters(params, filters)
	_, err := c.do(ctx, http.MethodDelete, "/rest/v1/"+table, params, nil, "")
	return err
}

func (c *Client) RPC(ctx context.Context, fn string, args Row) (json.RawMessage, error) {
	if args == nil {
		args = Row{}
	}
	body, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/"+fn, nil, args, "")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any, prefer string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("store.path", path),
		),
	)
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.count(ctx, method, "network_error")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.count(ctx, method, "network_error")
		return nil, fmt.Errorf("read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		span.SetStatus(codes.Error, apiErr.Message)
		c.count(ctx, method, "api_error")
		return nil, apiErr
	}

	span.SetStatus(codes.Ok, "")
	c.count(ctx, method, "ok")
	return body, nil
}

func (c *Client) count(ctx context.Context, method, outcome string) {
	c.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("outcome", outcome),
	))
}

func applyFilters(params url.Values, filters []Filter) {
	for _, f := range filters {
		params.Set(f.Column, f.Op+"."+f.Value)
	}
}

func decodeRows(body []byte) ([]Row, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var rows []Row
	if err := json.Unmarshal(body, &rows); err != nil {
		// A single object response (e.g. Accept: single) is tolerated.
		var one Row
		if err2 := json.Unmarshal(body, &one); err2 == nil {
			return []Row{one}, nil
		}
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
