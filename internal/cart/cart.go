package cart

import "errors"

var (
	// ErrItemNotFound means no line with the given (productID, size) key.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrHistoryTrimmed is a non-fatal warning: the backing store ran out
	// of room and only the most recent change was kept.
	ErrHistoryTrimmed = errors.New("cart history trimmed to fit storage")
)

// Item is one cart line. Lines merge by (ProductID, Size); UnitPrice is in
// minor units of the base currency.
type Item struct {
	ProductID     int    `json:"productId"`
	Name          string `json:"name"`
	UnitPrice     int64  `json:"unitPrice"`
	Quantity      int    `json:"quantity"`
	Size          string `json:"size"`
	Customization string `json:"customization,omitempty"`
	Image         string `json:"image,omitempty"`
}

func sameLine(a, b Item) bool {
	return a.ProductID == b.ProductID && a.Size == b.Size
}
