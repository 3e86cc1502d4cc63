package models

// CartLine is one selected menu item. ItemID is unique within a cart.
type CartLine struct {
	ItemID    int64  `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageRef  string `json:"image_ref,omitempty"`
}

// AddToCartPayload is sent when the customer taps "add to cart".
type AddToCartPayload struct {
	ItemID    int64  `json:"item_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
	ImageRef  string `json:"image_ref"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// UpdateQuantityPayload replaces a line's quantity.
type UpdateQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// CartView is the cart with its derived totals.
type CartView struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
}
