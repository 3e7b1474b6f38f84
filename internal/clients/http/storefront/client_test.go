package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req capturedRequest, token string)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, req, r.Header.Get(tokenHeader))
	}))
	t.Cleanup(srv.Close)
	client, err := NewClient("shop.example.com", "token-123", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, srv
}

const cartJSON = `{
  "id": "gid://shopify/Cart/c1",
  "checkoutUrl": "https://shop.example.com/cart/c/c1",
  "totalQuantity": 2,
  "lines": {"edges": [{"node": {
    "id": "gid://shopify/CartLine/l1",
    "quantity": 2,
    "merchandise": {
      "id": "gid://shopify/ProductVariant/1",
      "title": "2 Rolls",
      "product": {"title": "Kraft Tape", "handle": "kraft-tape"},
      "image": null,
      "price": {"amount": "15.0", "currencyCode": "USD"}
    },
    "cost": {
      "totalAmount": {"amount": "30.0", "currencyCode": "USD"},
      "subtotalAmount": {"amount": "30.0", "currencyCode": "USD"}
    }
  }}]},
  "cost": {
    "totalAmount": {"amount": "30.0", "currencyCode": "USD"},
    "subtotalAmount": {"amount": "30.0", "currencyCode": "USD"},
    "totalTaxAmount": null,
    "totalDutyAmount": null
  }
}`

func TestNewClient_BuildsEndpoint(t *testing.T) {
	client, err := NewClient(" https://shop.example.com/ ", "token")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/api/2024-01/graphql.json", client.Endpoint())

	client, err = NewClient("shop.example.com", "token", WithAPIVersion("2024-04"))
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/api/2024-04/graphql.json", client.Endpoint())

	_, err = NewClient("", "token")
	require.Error(t, err)
	_, err = NewClient("shop.example.com", " ")
	require.Error(t, err)
}

func TestCreateCart_SendsDocumentAndDecodesPayload(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest, token string) {
		assert.Equal(t, "token-123", token)
		assert.Equal(t, OperationCreateCart, req.OperationName)
		assert.Contains(t, req.Query, "cartCreate(input: $input)")
		input := req.Variables["input"].(map[string]any)
		lines := input["lines"].([]any)
		require.Len(t, lines, 1)
		assert.Equal(t, "gid://shopify/ProductVariant/1", lines[0].(map[string]any)["merchandiseId"])
		assert.EqualValues(t, 2, lines[0].(map[string]any)["quantity"])
		_, _ = w.Write([]byte(`{"data":{"cartCreate":{"cart":` + cartJSON + `,"userErrors":[]}}}`))
	})

	payload, err := client.CreateCart(context.Background(), CartLineInput{MerchandiseID: "gid://shopify/ProductVariant/1", Quantity: 2})
	require.NoError(t, err)
	require.NotNil(t, payload.Cart)
	assert.Equal(t, "gid://shopify/Cart/c1", payload.Cart.ID)
	assert.Equal(t, 2, payload.Cart.TotalQuantity)
	require.Len(t, payload.Cart.Lines.Edges, 1)
	assert.Equal(t, "kraft-tape", payload.Cart.Lines.Edges[0].Node.Merchandise.Product.Handle)
	assert.Nil(t, payload.Cart.Cost.TotalTaxAmount)
	assert.Empty(t, payload.UserErrors)
}

func TestAddLines_ReturnsUserErrors(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest, _ string) {
		assert.Equal(t, OperationAddCartLines, req.OperationName)
		assert.Equal(t, "gid://shopify/Cart/c1", req.Variables["cartId"])
		_, _ = w.Write([]byte(`{"data":{"cartLinesAdd":{"cart":null,"userErrors":[{"field":["lines","0","quantity"],"message":"Only 1 item left","code":"INVALID"}]}}}`))
	})

	payload, err := client.AddLines(context.Background(), "gid://shopify/Cart/c1", CartLineInput{MerchandiseID: "v", Quantity: 3})
	require.NoError(t, err)
	assert.Nil(t, payload.Cart)
	require.Len(t, payload.UserErrors, 1)
	assert.Equal(t, []string{"lines", "0", "quantity"}, payload.UserErrors[0].Field)
	assert.Equal(t, "INVALID", payload.UserErrors[0].Code)
}

func TestUpdateAndRemoveLines_SendVariables(t *testing.T) {
	var seen []capturedRequest
	client, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest, _ string) {
		seen = append(seen, req)
		switch req.OperationName {
		case OperationUpdateCartLines:
			_, _ = w.Write([]byte(`{"data":{"cartLinesUpdate":{"cart":` + cartJSON + `,"userErrors":[]}}}`))
		case OperationRemoveCartLines:
			_, _ = w.Write([]byte(`{"data":{"cartLinesRemove":{"cart":` + cartJSON + `,"userErrors":[]}}}`))
		}
	})
	ctx := context.Background()

	_, err := client.UpdateLines(ctx, "c1", CartLineUpdateInput{ID: "l1", Quantity: 3})
	require.NoError(t, err)
	_, err = client.RemoveLines(ctx, "c1", "l1")
	require.NoError(t, err)

	require.Len(t, seen, 2)
	update := seen[0].Variables["lines"].([]any)[0].(map[string]any)
	assert.Equal(t, "l1", update["id"])
	assert.EqualValues(t, 3, update["quantity"])
	assert.Equal(t, []any{"l1"}, seen[1].Variables["lineIds"])
}

func TestCart_NullMeansUnknown(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest, _ string) {
		assert.Equal(t, OperationGetCart, req.OperationName)
		_, _ = w.Write([]byte(`{"data":{"cart":null}}`))
	})

	cart, err := client.Cart(context.Background(), "gid://shopify/Cart/gone")
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestExecute_StatusError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ capturedRequest, _ string) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":"Unauthorized"}`))
	})

	_, err := client.Cart(context.Background(), "c1")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "Unauthorized")
}

func TestExecute_GraphQLErrors(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ capturedRequest, _ string) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`))
	})

	_, err := client.CreateCart(context.Background(), CartLineInput{MerchandiseID: "v", Quantity: 1})
	var gqlErrs GraphQLErrors
	require.True(t, errors.As(err, &gqlErrs))
	assert.Equal(t, "THROTTLED", gqlErrs[0].Extensions["code"])
	assert.Contains(t, err.Error(), "Throttled")
}

func TestExecute_MalformedBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, _ capturedRequest, _ string) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := client.Cart(context.Background(), "c1")
	require.Error(t, err)
}

func TestExecute_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client, err := NewClient("shop.example.com", "token", WithEndpoint(endpoint))
	require.NoError(t, err)
	_, err = client.Cart(context.Background(), "c1")
	require.Error(t, err)
}
