package domain

// MaxQuantity bounds a single cart line.
const MaxQuantity = 999

// Cart is the ordered list of line items, in the order products were first added.
// Totals are always derived from Items.
type Cart struct {
	Items []CartItem
}

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// IndexOf returns the position of the line for productID, or -1.
func (c Cart) IndexOf(productID string) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
