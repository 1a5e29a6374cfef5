package domain

// CartLine is a single product entry in the cart. A product appears at most
// once; repeated adds increment Quantity.
type CartLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name,omitempty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// CartSnapshot is an immutable copy of the cart taken at one instant, with
// totals computed from the captured lines.
type CartSnapshot struct {
	Lines      []CartLine `json:"lines"`
	ItemCount  int        `json:"itemCount"`
	TotalCents int64      `json:"totalCents"`
}
