package storefront

import (
	"fmt"
	"strings"

	storefrontclient "github.com/Apurer/storefront-cart/internal/clients/http/storefront"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// ToDomainCart converts the wire cart into the domain aggregate.
func ToDomainCart(c *storefrontclient.Cart) (*domain.Cart, error) {
	if c == nil {
		return nil, nil
	}
	cost, err := toCost(c.Cost)
	if err != nil {
		return nil, err
	}
	cart := &domain.Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		Cost:          cost,
		Lines:         make([]domain.Line, 0, len(c.Lines.Edges)),
	}
	for _, edge := range c.Lines.Edges {
		line, err := toLine(edge.Node)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", edge.Node.ID, err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart, nil
}

// ToDomainUserErrors copies storefront user errors.
func ToDomainUserErrors(in []storefrontclient.CartUserError) []domain.UserError {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.UserError, 0, len(in))
	for _, ue := range in {
		out = append(out, domain.UserError{
			Field:   append([]string(nil), ue.Field...),
			Message: strings.TrimSpace(ue.Message),
			Code:    ue.Code,
		})
	}
	return out
}

func toLine(l storefrontclient.CartLine) (domain.Line, error) {
	price, err := toMoney(l.Merchandise.Price)
	if err != nil {
		return domain.Line{}, fmt.Errorf("price: %w", err)
	}
	subtotal, err := toMoney(l.Cost.SubtotalAmount)
	if err != nil {
		return domain.Line{}, fmt.Errorf("subtotal: %w", err)
	}
	total, err := toMoney(l.Cost.TotalAmount)
	if err != nil {
		return domain.Line{}, fmt.Errorf("total: %w", err)
	}
	var image *domain.Image
	if img := l.Merchandise.Image; img != nil {
		image = &domain.Image{ID: img.ID, URL: img.URL, AltText: img.AltText, Width: img.Width, Height: img.Height}
	}
	return domain.Line{
		ID:       l.ID,
		Quantity: l.Quantity,
		Merchandise: domain.Merchandise{
			VariantID:     l.Merchandise.ID,
			Title:         l.Merchandise.Title,
			ProductTitle:  l.Merchandise.Product.Title,
			ProductHandle: l.Merchandise.Product.Handle,
			Image:         image,
			UnitPrice:     price,
		},
		Cost: domain.LineCost{Subtotal: subtotal, Total: total},
	}, nil
}

func toCost(c storefrontclient.CartCost) (domain.Cost, error) {
	subtotal, err := toMoney(c.SubtotalAmount)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("subtotal: %w", err)
	}
	total, err := toMoney(c.TotalAmount)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("total: %w", err)
	}
	tax, err := toOptionalMoney(c.TotalTaxAmount)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("tax: %w", err)
	}
	duty, err := toOptionalMoney(c.TotalDutyAmount)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("duty: %w", err)
	}
	return domain.Cost{Subtotal: subtotal, Total: total, Tax: tax, Duty: duty}, nil
}

func toMoney(m storefrontclient.MoneyV2) (domain.Money, error) {
	if strings.TrimSpace(m.Amount) == "" {
		return domain.Money{CurrencyCode: strings.ToUpper(m.CurrencyCode)}, nil
	}
	return domain.NewMoney(m.Amount, m.CurrencyCode)
}

func toOptionalMoney(m *storefrontclient.MoneyV2) (*domain.Money, error) {
	if m == nil {
		return nil, nil
	}
	money, err := toMoney(*m)
	if err != nil {
		return nil, err
	}
	return &money, nil
}
