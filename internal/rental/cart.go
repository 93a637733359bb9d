// Package rental holds the cart value type and the price arithmetic for
// rental orders. A Cart is an immutable value: Add and Remove return a new
// cart, and totals are pure functions, so the arithmetic is testable apart
// from any handler or storage code.
package rental

import (
	"math"
	"time"

	"github.com/kamberss/camrent/internal/models"
)

const dateLayout = "2006-01-02"

// LineItem is a product snapshot plus the catalog category it was picked
// from. Duplicate product ids are allowed.
type LineItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

type Cart []LineItem

func (c Cart) Add(p models.Product, category string) Cart {
	return append(c, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  category,
		Price:     p.Price,
	})
}

// Remove drops every line item with the given product id, not just the
// first match.
func (c Cart) Remove(productID uint) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func (c Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c {
		sum += it.Price
	}
	return sum
}

// Total is the sum of per-day prices multiplied by the rental duration.
// Duration is uniform across the whole cart.
func (c Cart) Total(days int) float64 {
	if days < 1 {
		days = 1
	}
	return c.Subtotal() * float64(days)
}

// DurationDays returns the chargeable rental duration between two
// "2006-01-02" dates: ceil of the difference in whole days, never less
// than 1. A missing or unparsable date, a same-day range, and an inverted
// range all charge for exactly one day.
func DurationDays(startDate, endDate string) int {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 1
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 1
	}

	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
