// internal/pkg/httpclient/client.go

package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"autohub/internal/pkg/apperr"
	"autohub/internal/pkg/correlation"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Resolver turns a service name into a base URL such as http://10.0.0.7:8082.
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// StaticResolver resolves from a fixed service -> base URL table.
type StaticResolver map[string]string

func (s StaticResolver) Resolve(_ context.Context, service string) (string, error) {
	if u, ok := s[service]; ok && u != "" {
		return u, nil
	}
	return "", errors.Errorf("no base url configured for service %q", service)
}

// StatusError is a non-2xx answer from a downstream service.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service %s returned %d %s: %s", e.Service, e.StatusCode, e.Code, e.Message)
}

// Client is a traced HTTP client for calls between services.
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	resolver   Resolver
}

// NewClient creates a client without an http.Client timeout: deadlines come
// from the request context.
func NewClient(tracer trace.Tracer, resolver Resolver) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		resolver:   resolver,
	}
}

// GetJSON issues a GET and decodes a 2xx JSON body into out.
func (c *Client) GetJSON(ctx context.Context, service, path string, out any) (int, error) {
	return c.Do(ctx, http.MethodGet, service, path, nil, out)
}

// PostJSON posts in as JSON and decodes a 2xx JSON body into out.
func (c *Client) PostJSON(ctx context.Context, service, path string, in, out any) (int, error) {
	return c.Do(ctx, http.MethodPost, service, path, in, out)
}

// Do performs the request and returns the status code. Non-2xx answers become
// an apperr wrapping a *StatusError, classified by the error code in the body
// or else by the status code.
func (c *Client) Do(ctx context.Context, method, service, path string, in, out any) (int, error) {
	ctx, span := c.Tracer.Start(ctx, fmt.Sprintf("call-%s", service), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	base, err := c.resolver.Resolve(ctx, service)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, apperr.Wrap(err, apperr.KindServiceUnavailable, "resolve "+service)
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		span.RecordError(err)
		return 0, errors.WithStack(err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	span.SetAttributes(
		attribute.String("http.url", req.URL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	correlation.Inject(ctx, req.Header)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, errors.Wrapf(err, "%s %s", method, req.URL.Path)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return resp.StatusCode, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Service: service, StatusCode: resp.StatusCode, Body: raw}
		var eb struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			serr.Code, serr.Message = eb.Code, eb.Message
		}
		kind, ok := apperr.KindFromCode(serr.Code)
		if !ok {
			kind = apperr.KindFromStatus(resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			span.RecordError(serr)
			span.SetStatus(codes.Error, serr.Error())
		}
		return resp.StatusCode, apperr.Wrap(serr, kind, serr.Error())
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "decode response body")
		}
	}
	return resp.StatusCode, nil
}

// AsStatusError extracts the *StatusError from err's chain.
func AsStatusError(err error) (*StatusError, bool) {
	var serr *StatusError
	ok := errors.As(err, &serr)
	return serr, ok
}
