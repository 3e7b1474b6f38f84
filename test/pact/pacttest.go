//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// ProviderName and ConsumerName describe the browser-facing cart contract.
	ProviderName = "cart-api"
	ConsumerName = "storefront-web"

	// StorefrontProviderName is the Shopify Storefront API as consumed by the cart API.
	StorefrontProviderName = "shopify-storefront"

	StateNoCart          = "session has no cart"
	StateCartWithLine    = "session has a cart with one line"
	StateStorefrontDown  = "storefront is unavailable"
	StateStorefrontCart  = "storefront cart exists"
	StateStorefrontEmpty = "storefront has no such cart"
)

const (
	// SessionID is the fixed session cookie value every consumer interaction sends.
	SessionID = "6a4c8c2e-3f0b-4a0d-9b61-2f1d5a8e7c10"

	ExistingCartID = "gid://shopify/Cart/c1-pact"
	MissingCartID  = "gid://shopify/Cart/gone-pact"
	ExistingLineID = "gid://shopify/CartLine/l1-pact"
	VariantID      = "gid://shopify/ProductVariant/4242"
	StoreDomain    = "pact-shop.myshopify.com"
	AccessToken    = "pact-storefront-token"
)

const (
	sampleCheckoutURL  = "https://pact-shop.myshopify.com/cart/c/c1-pact"
	sampleProductTitle = "Kraft Packing Tape"
	sampleHandle       = "kraft-packing-tape"
	sampleVariantTitle = "6 Rolls"
	sampleUnitPrice    = "12.50"
	sampleCurrency     = "USD"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the storefront web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// SampleMoney is a storefront MoneyV2 payload.
func SampleMoney(amount string) map[string]any {
	return map[string]any{"amount": amount, "currencyCode": sampleCurrency}
}

// SampleStorefrontCart is a Cart object as returned by the Storefront API with one line.
func SampleStorefrontCart(quantity int) map[string]any {
	return map[string]any{
		"id":            ExistingCartID,
		"checkoutUrl":   sampleCheckoutURL,
		"totalQuantity": quantity,
		"lines": map[string]any{
			"edges": []any{map[string]any{"node": map[string]any{
				"id":       ExistingLineID,
				"quantity": quantity,
				"merchandise": map[string]any{
					"id":      VariantID,
					"title":   sampleVariantTitle,
					"product": map[string]any{"title": sampleProductTitle, "handle": sampleHandle},
					"image":   nil,
					"price":   SampleMoney(sampleUnitPrice),
				},
				"cost": map[string]any{
					"totalAmount":    SampleMoney("25.00"),
					"subtotalAmount": SampleMoney("25.00"),
				},
			}}},
		},
		"cost": map[string]any{
			"totalAmount":     SampleMoney("25.00"),
			"subtotalAmount":  SampleMoney("25.00"),
			"totalTaxAmount":  nil,
			"totalDutyAmount": nil,
		},
	}
}

// SampleProductTitle exposes the seeded product title for assertions.
func SampleProductTitle() string { return sampleProductTitle }

// SampleVariantTitle exposes the seeded variant title for assertions.
func SampleVariantTitle() string { return sampleVariantTitle }

// SampleUnitPrice exposes the seeded unit price and currency.
func SampleUnitPrice() (string, string) { return sampleUnitPrice, sampleCurrency }

// SampleCheckoutURL exposes the seeded checkout url.
func SampleCheckoutURL() string { return sampleCheckoutURL }

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
