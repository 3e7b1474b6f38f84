package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount in a single currency.
type Money struct {
	Amount       decimal.Decimal
	CurrencyCode string
}

// NewMoney parses a decimal string as returned by the storefront.
func NewMoney(amount, currencyCode string) (Money, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: value, CurrencyCode: strings.ToUpper(strings.TrimSpace(currencyCode))}, nil
}

// String renders the amount with two decimals followed by the currency code.
func (m Money) String() string {
	if m.CurrencyCode == "" {
		return m.Amount.StringFixed(2)
	}
	return m.Amount.StringFixed(2) + " " + m.CurrencyCode
}

// Image references a merchandise picture.
type Image struct {
	ID      string
	URL     string
	AltText string
	Width   int
	Height  int
}

// Merchandise is the purchasable variant a line points at.
type Merchandise struct {
	VariantID     string
	Title         string
	ProductTitle  string
	ProductHandle string
	Image         *Image
	UnitPrice     Money
}

// LineCost is computed by the platform per line.
type LineCost struct {
	Subtotal Money
	Total    Money
}

// Line is a single entry of a cart.
type Line struct {
	ID          string
	Quantity    int
	Merchandise Merchandise
	Cost        LineCost
}

// Cost is the cart-level breakdown. Tax and Duty are nil when the platform omits them.
type Cost struct {
	Subtotal Money
	Total    Money
	Tax      *Money
	Duty     *Money
}

// Cart mirrors the remote cart as of the last successful response.
// The client never computes any of these values itself.
type Cart struct {
	ID            string
	CheckoutURL   string
	TotalQuantity int
	Cost          Cost
	Lines         []Line
}

// LineQuantity sums the quantities of all lines.
func (c *Cart) LineQuantity() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Line looks up a line by identifier.
func (c *Cart) Line(id string) (Line, bool) {
	if c == nil {
		return Line{}, false
	}
	for _, line := range c.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// Clone returns a deep copy so callers cannot mutate a cached snapshot.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Cost.Tax = cloneMoney(c.Cost.Tax)
	clone.Cost.Duty = cloneMoney(c.Cost.Duty)
	if c.Lines != nil {
		clone.Lines = make([]Line, len(c.Lines))
		for i, line := range c.Lines {
			if line.Merchandise.Image != nil {
				img := *line.Merchandise.Image
				line.Merchandise.Image = &img
			}
			clone.Lines[i] = line
		}
	}
	return &clone
}

func cloneMoney(m *Money) *Money {
	if m == nil {
		return nil
	}
	copy := *m
	return &copy
}
