package storefront

// MoneyV2 is a decimal amount as the Storefront API serializes it.
type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type Product struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

// ProductVariant is the merchandise of a cart line.
type ProductVariant struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Product Product `json:"product"`
	Image   *Image  `json:"image"`
	Price   MoneyV2 `json:"price"`
}

type CartLineCost struct {
	TotalAmount    MoneyV2 `json:"totalAmount"`
	SubtotalAmount MoneyV2 `json:"subtotalAmount"`
}

type CartLine struct {
	ID          string         `json:"id"`
	Quantity    int            `json:"quantity"`
	Merchandise ProductVariant `json:"merchandise"`
	Cost        CartLineCost   `json:"cost"`
}

type CartLineEdge struct {
	Node CartLine `json:"node"`
}

type CartLineConnection struct {
	Edges []CartLineEdge `json:"edges"`
}

type CartCost struct {
	TotalAmount     MoneyV2  `json:"totalAmount"`
	SubtotalAmount  MoneyV2  `json:"subtotalAmount"`
	TotalTaxAmount  *MoneyV2 `json:"totalTaxAmount"`
	TotalDutyAmount *MoneyV2 `json:"totalDutyAmount"`
}

type Cart struct {
	ID            string             `json:"id"`
	CheckoutURL   string             `json:"checkoutUrl"`
	TotalQuantity int                `json:"totalQuantity"`
	Lines         CartLineConnection `json:"lines"`
	Cost          CartCost           `json:"cost"`
}

// CartUserError is a business-rule rejection reported inside a mutation payload.
type CartUserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// CartPayload is the common shape of every cart mutation result.
type CartPayload struct {
	Cart       *Cart           `json:"cart"`
	UserErrors []CartUserError `json:"userErrors"`
}

// CartLineInput adds merchandise to a cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdateInput sets the quantity of an existing line.
type CartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CartInput struct {
	Lines []CartLineInput `json:"lines"`
}

type createCartData struct {
	CartCreate *CartPayload `json:"cartCreate"`
}

type addCartLinesData struct {
	CartLinesAdd *CartPayload `json:"cartLinesAdd"`
}

type updateCartLinesData struct {
	CartLinesUpdate *CartPayload `json:"cartLinesUpdate"`
}

type removeCartLinesData struct {
	CartLinesRemove *CartPayload `json:"cartLinesRemove"`
}

type getCartData struct {
	Cart *Cart `json:"cart"`
}
