package domain

// LineItem is one plant in the cart. A cart holds at most one LineItem per
// PlantID.
type LineItem struct {
	PlantID  ID      `json:"plantId" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
}

// Cart is the ordered sequence of line items. Totals are always derived from
// the items and never stored.
type Cart []LineItem

// ItemCount is the sum of quantities over all line items.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price × quantity over all line items.
func (c Cart) Total() float64 {
	var sum float64
	for _, it := range c {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Index returns the position of the line item for plantID, or -1.
func (c Cart) Index(plantID ID) int {
	for i, it := range c {
		if it.PlantID == plantID {
			return i
		}
	}
	return -1
}
