package storefront

// Operation names sent alongside each document.
const (
	OperationCreateCart      = "CreateCart"
	OperationAddCartLines    = "AddCartLines"
	OperationUpdateCartLines = "UpdateCartLines"
	OperationRemoveCartLines = "RemoveCartLines"
	OperationGetCart         = "GetCart"
)

const cartFragment = `
fragment CartFragment on Cart {
  id
  checkoutUrl
  totalQuantity
  lines(first: 50) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            product {
              title
              handle
            }
            image {
              id
              url
              altText
              width
              height
            }
            price {
              amount
              currencyCode
            }
          }
        }
        cost {
          totalAmount {
            amount
            currencyCode
          }
          subtotalAmount {
            amount
            currencyCode
          }
        }
      }
    }
  }
  cost {
    totalAmount {
      amount
      currencyCode
    }
    subtotalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
    totalDutyAmount {
      amount
      currencyCode
    }
  }
}
`

const userErrorFields = `
    userErrors {
      field
      message
      code
    }
`

// CreateCartMutation creates a cart seeded with lines.
const CreateCartMutation = `mutation CreateCart($input: CartInput!) {
  cartCreate(input: $input) {
    cart {
      ...CartFragment
    }` + userErrorFields + `  }
}
` + cartFragment

// AddCartLinesMutation appends lines to an existing cart.
const AddCartLinesMutation = `mutation AddCartLines($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFragment
    }` + userErrorFields + `  }
}
` + cartFragment

// UpdateCartLinesMutation sets absolute line quantities.
const UpdateCartLinesMutation = `mutation UpdateCartLines($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFragment
    }` + userErrorFields + `  }
}
` + cartFragment

// RemoveCartLinesMutation deletes lines by id.
const RemoveCartLinesMutation = `mutation RemoveCartLines($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFragment
    }` + userErrorFields + `  }
}
` + cartFragment

// GetCartQuery reads a cart; cart is null when the id is unknown or expired.
const GetCartQuery = `query GetCart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFragment
  }
}
` + cartFragment
