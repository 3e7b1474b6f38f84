package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultAPIVersion is the Storefront API version the documents are written against.
	DefaultAPIVersion = "2024-01"
	// DefaultTimeout bounds one round-trip.
	DefaultTimeout = 10 * time.Second

	tokenHeader      = "X-Shopify-Storefront-Access-Token"
	maxErrorBodySize = 4 << 10
)

// Client talks to the Shopify Storefront GraphQL endpoint of one shop.
type Client struct {
	endpoint   string
	token      string
	apiVersion string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithAPIVersion selects the Storefront API version segment of the endpoint.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(version); v != "" {
			c.apiVersion = v
		}
	}
}

// WithEndpoint overrides the full GraphQL endpoint URL, e.g. for a mock server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	}
}

// NewClient builds a client for https://{domain}/api/{version}/graphql.json.
func NewClient(domain, token string, opts ...Option) (*Client, error) {
	domain = NormalizeDomain(domain)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("storefront access token is required")
	}
	c := &Client{
		token:      token,
		apiVersion: DefaultAPIVersion,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.endpoint == "" {
		if domain == "" {
			return nil, errors.New("storefront domain is required")
		}
		c.endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", domain, c.apiVersion)
	}
	return c, nil
}

// NormalizeDomain strips scheme, path and surrounding whitespace from a shop domain.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

// Endpoint returns the GraphQL URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphQLErrors   `json:"errors"`
}

// Execute posts one GraphQL document and decodes its data member into out.
func (c *Client) Execute(ctx context.Context, operationName, query string, variables map[string]any, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("storefront client not configured")
	}
	body, err := json.Marshal(request{Query: query, OperationName: operationName, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", operationName, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operationName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call storefront %s: %w", operationName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(snippet))}
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode storefront %s response: %w", operationName, err)
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("storefront %s response carried no data", operationName)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode storefront %s data: %w", operationName, err)
	}
	return nil
}

// CreateCart runs cartCreate with the given lines.
func (c *Client) CreateCart(ctx context.Context, lines ...CartLineInput) (*CartPayload, error) {
	var data createCartData
	vars := map[string]any{"input": CartInput{Lines: lines}}
	if err := c.Execute(ctx, OperationCreateCart, CreateCartMutation, vars, &data); err != nil {
		return nil, err
	}
	return payloadOrEmpty(data.CartCreate), nil
}

// AddLines runs cartLinesAdd.
func (c *Client) AddLines(ctx context.Context, cartID string, lines ...CartLineInput) (*CartPayload, error) {
	var data addCartLinesData
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.Execute(ctx, OperationAddCartLines, AddCartLinesMutation, vars, &data); err != nil {
		return nil, err
	}
	return payloadOrEmpty(data.CartLinesAdd), nil
}

// UpdateLines runs cartLinesUpdate.
func (c *Client) UpdateLines(ctx context.Context, cartID string, lines ...CartLineUpdateInput) (*CartPayload, error) {
	var data updateCartLinesData
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.Execute(ctx, OperationUpdateCartLines, UpdateCartLinesMutation, vars, &data); err != nil {
		return nil, err
	}
	return payloadOrEmpty(data.CartLinesUpdate), nil
}

// RemoveLines runs cartLinesRemove.
func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs ...string) (*CartPayload, error) {
	var data removeCartLinesData
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.Execute(ctx, OperationRemoveCartLines, RemoveCartLinesMutation, vars, &data); err != nil {
		return nil, err
	}
	return payloadOrEmpty(data.CartLinesRemove), nil
}

// Cart fetches a cart by id. A nil cart with a nil error means the id is unknown.
func (c *Client) Cart(ctx context.Context, cartID string) (*Cart, error) {
	var data getCartData
	if err := c.Execute(ctx, OperationGetCart, GetCartQuery, map[string]any{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	return data.Cart, nil
}

func payloadOrEmpty(p *CartPayload) *CartPayload {
	if p == nil {
		return &CartPayload{}
	}
	return p
}
