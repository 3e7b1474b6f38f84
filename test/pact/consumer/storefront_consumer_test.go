//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/storefront-cart/test/pact"

	storefrontclient "github.com/Apurer/storefront-cart/internal/clients/http/storefront"
	storefrontgateway "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/external/storefront"
	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

const graphqlPath = "/api/" + storefrontclient.DefaultAPIVersion + "/graphql.json"

func TestCartAPIStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ProviderName,
		Provider: pacttest.StorefrontProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	graphqlRequest := func(operation, document string, variables map[string]any) func(b *pactconsumer.V2RequestBuilder) {
		return func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("X-Shopify-Storefront-Access-Token", matchers.S(pacttest.AccessToken))
			b.JSONBody(matchers.Map{
				"query":         matchers.Like(document),
				"operationName": operation,
				"variables":     variables,
			})
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateStorefrontEmpty).
		UponReceiving("a cartCreate mutation seeded with one line").
		WithRequest("POST", graphqlPath, graphqlRequest(
			storefrontclient.OperationCreateCart,
			storefrontclient.CreateCartMutation,
			map[string]any{"input": map[string]any{"lines": []any{
				map[string]any{"merchandiseId": pacttest.VariantID, "quantity": 2},
			}}},
		)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(map[string]any{"data": map[string]any{"cartCreate": map[string]any{
				"cart":       pacttest.SampleStorefrontCart(2),
				"userErrors": []any{},
			}}})
		})

	pact.AddInteraction().
		Given(pacttest.StateStorefrontCart).
		UponReceiving("a cartLinesAdd mutation the storefront rejects").
		WithRequest("POST", graphqlPath, graphqlRequest(
			storefrontclient.OperationAddCartLines,
			storefrontclient.AddCartLinesMutation,
			map[string]any{
				"cartId": pacttest.ExistingCartID,
				"lines":  []any{map[string]any{"merchandiseId": pacttest.VariantID, "quantity": 500}},
			},
		)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(map[string]any{"data": map[string]any{"cartLinesAdd": map[string]any{
				"cart": nil,
				"userErrors": []any{map[string]any{
					"field":   []any{"lines", "0", "quantity"},
					"message": matchers.Like("Only 12 items were added to your cart due to availability."),
					"code":    matchers.Like("INVALID"),
				}},
			}}})
		})

	pact.AddInteraction().
		Given(pacttest.StateStorefrontCart).
		UponReceiving("a cart query for an existing cart").
		WithRequest("POST", graphqlPath, graphqlRequest(
			storefrontclient.OperationGetCart,
			storefrontclient.GetCartQuery,
			map[string]any{"cartId": pacttest.ExistingCartID},
		)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(map[string]any{"data": map[string]any{"cart": pacttest.SampleStorefrontCart(2)}})
		})

	pact.AddInteraction().
		Given(pacttest.StateStorefrontEmpty).
		UponReceiving("a cart query for an expired cart").
		WithRequest("POST", graphqlPath, graphqlRequest(
			storefrontclient.OperationGetCart,
			storefrontclient.GetCartQuery,
			map[string]any{"cartId": pacttest.MissingCartID},
		)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(map[string]any{"data": map[string]any{"cart": nil}})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		gateway, err := newStorefrontGateway(config)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := gateway.CreateCart(ctx, pacttest.VariantID, 2)
		if err != nil {
			return fmt.Errorf("create cart: %w", err)
		}
		if created.ID != pacttest.ExistingCartID || created.TotalQuantity != 2 {
			return fmt.Errorf("unexpected created cart %+v", created)
		}
		if len(created.Lines) != 1 || created.Lines[0].Merchandise.ProductTitle != pacttest.SampleProductTitle() {
			return fmt.Errorf("unexpected created lines %+v", created.Lines)
		}

		if _, err := gateway.AddLine(ctx, pacttest.ExistingCartID, pacttest.VariantID, 500); !errors.Is(err, cartdomain.ErrValidationRejected) {
			return fmt.Errorf("expected a rejection, got %v", err)
		}

		fetched, found, err := gateway.FetchCart(ctx, pacttest.ExistingCartID)
		if err != nil {
			return fmt.Errorf("fetch cart: %w", err)
		}
		if !found || fetched.CheckoutURL != pacttest.SampleCheckoutURL() {
			return fmt.Errorf("unexpected fetched cart %+v", fetched)
		}

		if _, found, err := gateway.FetchCart(ctx, pacttest.MissingCartID); err != nil || found {
			return fmt.Errorf("expected unknown cart, found=%t err=%v", found, err)
		}
		return nil
	})
	require.NoError(t, err)
}

func newStorefrontGateway(config pactconsumer.MockServerConfig) (*storefrontgateway.Gateway, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	client, err := storefrontclient.NewClient(pacttest.StoreDomain, pacttest.AccessToken,
		storefrontclient.WithEndpoint(fmt.Sprintf("http://%s:%d%s", host, config.Port, graphqlPath)),
		storefrontclient.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: config.TLSConfig},
			Timeout:   10 * time.Second,
		}),
	)
	if err != nil {
		return nil, err
	}
	return storefrontgateway.NewGateway(client), nil
}
