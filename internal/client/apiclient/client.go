// Package apiclient is a thin client for the journal REST API that
// authenticates with the locally stored session token.
package apiclient

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

	"github.com/pkg/errors"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
	"github.com/Overland-East-Bay/trip-journal/internal/session"
)

const defaultTimeout = 10 * time.Second

// ErrNoSession is returned without contacting the server when the stored
// token is missing, malformed or expired.
var ErrNoSession = errors.New("no valid session; run `journal auth login`")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	if e.RequestID != "" {
		msg += " (request " + e.RequestID + ")"
	}
	return msg
}

type Client struct {
	baseURL string
	client  *http.Client
	decoder *session.Decoder
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client. Its transport is wrapped so
// auth headers are still attached.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.client = &cp
	}
}

func New(baseURL string, tokens *session.TokenStore, decoder *session.Decoder, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
		decoder: decoder,
	}
	for _, opt := range opts {
		opt(c)
	}
	base := c.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.client.Transport = &authTransport{base: base, tokens: tokens}
	return c
}

// authTransport attaches the bearer token and the fixed JSON headers.
type authTransport struct {
	base   http.RoundTripper
	tokens *session.TokenStore
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Content-Type", "application/json")
	if tok, ok := t.tokens.Get(req.Context()); ok {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	return t.base.RoundTrip(r)
}

func (c *Client) do(ctx context.Context, method, path string, body any, hdr http.Header, out any) error {
	if !c.decoder.IsValid(ctx) {
		return ErrNoSession
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
	var er httpapi.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error.Code != "" {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
		if rid, err := er.Error.RequestId.Get(); err == nil {
			apiErr.RequestID = rid
		}
	}
	return apiErr
}

func tripPath(id string) string {
	return "/trips/" + url.PathEscape(id)
}

func (c *Client) Me(ctx context.Context) (httpapi.Me, error) {
	var out httpapi.Me
	err := c.do(ctx, http.MethodGet, "/me", nil, nil, &out)
	return out, err
}

func (c *Client) ListTrips(ctx context.Context) ([]httpapi.Trip, error) {
	var out httpapi.TripListResponse
	if err := c.do(ctx, http.MethodGet, "/trips", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Trips, nil
}

func (c *Client) GetTrip(ctx context.Context, id string) (httpapi.Trip, error) {
	var out httpapi.TripResponse
	err := c.do(ctx, http.MethodGet, tripPath(id), nil, nil, &out)
	return out.Trip, err
}

// CreateTrip creates a trip. A non-empty idempotencyKey makes retries safe.
func (c *Client) CreateTrip(ctx context.Context, in httpapi.CreateTripRequest, idempotencyKey string) (httpapi.Trip, error) {
	var hdr http.Header
	if idempotencyKey != "" {
		hdr = http.Header{httpapi.IdempotencyKeyHeader: []string{idempotencyKey}}
	}
	var out httpapi.TripResponse
	err := c.do(ctx, http.MethodPost, "/trips", in, hdr, &out)
	return out.Trip, err
}

func (c *Client) ListItems(ctx context.Context, tripID string) ([]httpapi.Item, error) {
	var out httpapi.ItemListResponse
	if err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/items", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) TripMap(ctx context.Context, tripID string) (httpapi.MapResponse, error) {
	var out httpapi.MapResponse
	err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/map", nil, nil, &out)
	return out, err
}

func (c *Client) DashboardMap(ctx context.Context) (httpapi.MapResponse, error) {
	var out httpapi.MapResponse
	err := c.do(ctx, http.MethodGet, "/me/map", nil, nil, &out)
	return out, err
}
