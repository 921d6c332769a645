package pricing

import (
	"errors"
	"strings"
)

// ErrBelowMinimum signals a total under the payment provider's floor. The
// caller should prompt the customer to add items instead of requesting a
// session that is guaranteed to fail.
var ErrBelowMinimum = errors.New("order total below provider minimum")

// Region is the shipping-cost tier for a single checkout attempt.
type Region int

const (
	Domestic Region = iota
	International
)

func (r Region) String() string {
	if r == Domestic {
		return "domestic"
	}
	return "international"
}

// homeAliases lists the country-name spellings shoppers type in place of
// a home country code, so the alias set follows the configured code.
var homeAliases = map[string][]string{
	"AE": {"uae", "united arab emirates"},
}

// RegionForCountry maps the customer's declared shipping country onto a
// region. The home country ships domestically; everything else is
// international.
func RegionForCountry(country, homeCode string) Region {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == strings.ToLower(homeCode) {
		return Domestic
	}
	for _, alias := range homeAliases[strings.ToUpper(homeCode)] {
		if c == alias {
			return Domestic
		}
	}
	return International
}

// Item is the minimal shape the calculator needs from a cart line.
type Item struct {
	UnitPrice int64
	Quantity  int
}

// Quote is a price breakdown in minor units of the base currency.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shippingFee"`
	Total       int64 `json:"total"`
	ItemCount   int   `json:"itemCount"`
}

// Calculator prices a cart snapshot. Price is deterministic and free of
// side effects so reconciliation can recompute a staged total and
// cross-check it against what was actually charged.
type Calculator struct {
	feePerItem int64
	minimum    int64
}

func NewCalculator(feePerItem, minimum int64) *Calculator {
	return &Calculator{feePerItem: feePerItem, minimum: minimum}
}

func (c *Calculator) Price(items []Item, region Region) Quote {
	var q Quote
	for _, it := range items {
		q.Subtotal += it.UnitPrice * int64(it.Quantity)
		q.ItemCount += it.Quantity
	}
	if region == International {
		q.ShippingFee = c.feePerItem * int64(q.ItemCount)
	}
	q.Total = q.Subtotal + q.ShippingFee
	return q
}

// CheckMinimum rejects totals the provider would refuse.
func (c *Calculator) CheckMinimum(q Quote) error {
	if q.Total < c.minimum {
		return ErrBelowMinimum
	}
	return nil
}
