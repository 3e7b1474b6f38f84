package mapper

import (
	"strconv"
	"strings"
	"unicode"

	cartdomain "github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// Money is the transport shape of an amount. Amount keeps the storefront's decimal text.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	Formatted    string `json:"formatted"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// Line is one cart entry as rendered by the sidebar.
type Line struct {
	ID            string `json:"id"`
	Quantity      int    `json:"quantity"`
	VariantID     string `json:"variantId"`
	VariantTitle  string `json:"variantTitle"`
	ProductTitle  string `json:"productTitle"`
	ProductHandle string `json:"productHandle"`
	PackCount     int    `json:"packCount"`
	Image         *Image `json:"image,omitempty"`
	UnitPrice     Money  `json:"unitPrice"`
	Subtotal      Money  `json:"subtotal"`
	Total         Money  `json:"total"`
}

type Cost struct {
	Subtotal Money  `json:"subtotal"`
	Total    Money  `json:"total"`
	Tax      *Money `json:"tax,omitempty"`
	Duty     *Money `json:"duty,omitempty"`
}

type Cart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          Cost   `json:"cost"`
	Lines         []Line `json:"lines"`
}

// Snapshot is the session view returned by every cart endpoint.
type Snapshot struct {
	Cart      *Cart  `json:"cart"`
	ItemCount int    `json:"itemCount"`
	Loading   bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
	IsOpen    bool   `json:"isOpen"`
	State     string `json:"state"`
}

// AddItemRequest adds a variant. Quantity defaults to 1 when omitted.
type AddItemRequest struct {
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity"`
}

// QuantityOrDefault returns the requested quantity, or 1 when it was omitted.
func (r AddItemRequest) QuantityOrDefault() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type UpdateQuantityRequest struct {
	LineID   string `json:"lineId"`
	Quantity int    `json:"quantity"`
}

type RemoveItemRequest struct {
	LineID string `json:"lineId"`
}

// AdjustQuantityRequest applies a relative change as issued by the sidebar +/- controls.
type AdjustQuantityRequest struct {
	LineID          string `json:"lineId"`
	CurrentQuantity int    `json:"currentQuantity"`
	Delta           int    `json:"delta"`
}

type ItemCount struct {
	Count int `json:"count"`
}

// FromDomainSnapshot converts a session snapshot to its transport shape.
func FromDomainSnapshot(s cartdomain.Snapshot) Snapshot {
	return Snapshot{
		Cart:      FromDomainCart(s.Cart),
		ItemCount: s.ItemCount(),
		Loading:   s.Loading,
		Error:     s.Error,
		IsOpen:    s.IsOpen,
		State:     string(s.State),
	}
}

// FromDomainCart converts a domain cart; nil stays nil.
func FromDomainCart(c *cartdomain.Cart) *Cart {
	if c == nil {
		return nil
	}
	lines := make([]Line, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, fromDomainLine(l))
	}
	return &Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		Cost: Cost{
			Subtotal: fromDomainMoney(c.Cost.Subtotal),
			Total:    fromDomainMoney(c.Cost.Total),
			Tax:      fromOptionalMoney(c.Cost.Tax),
			Duty:     fromOptionalMoney(c.Cost.Duty),
		},
		Lines: lines,
	}
}

func fromDomainLine(l cartdomain.Line) Line {
	var image *Image
	if img := l.Merchandise.Image; img != nil {
		image = &Image{URL: img.URL, AltText: img.AltText, Width: img.Width, Height: img.Height}
	}
	return Line{
		ID:            l.ID,
		Quantity:      l.Quantity,
		VariantID:     l.Merchandise.VariantID,
		VariantTitle:  l.Merchandise.Title,
		ProductTitle:  l.Merchandise.ProductTitle,
		ProductHandle: l.Merchandise.ProductHandle,
		PackCount:     PackCount(l.Merchandise.Title),
		Image:         image,
		UnitPrice:     fromDomainMoney(l.Merchandise.UnitPrice),
		Subtotal:      fromDomainMoney(l.Cost.Subtotal),
		Total:         fromDomainMoney(l.Cost.Total),
	}
}

func fromDomainMoney(m cartdomain.Money) Money {
	return Money{Amount: m.Amount.String(), CurrencyCode: m.CurrencyCode, Formatted: m.String()}
}

func fromOptionalMoney(m *cartdomain.Money) *Money {
	if m == nil {
		return nil
	}
	out := fromDomainMoney(*m)
	return &out
}

// PackCount reads the leading integer of a variant title such as "3 Rolls".
// Titles without one count as a single pack.
func PackCount(title string) int {
	title = strings.TrimSpace(title)
	end := strings.IndexFunc(title, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(title)
	}
	n, err := strconv.Atoi(title[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
