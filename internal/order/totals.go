package order

import "coffee-order/internal/models"

// ServiceFee is added to every order total, including an empty one.
const ServiceFee int64 = 2000

// Calculate derives the order summary from quantities and the menu.
// Ids that are not on the menu are skipped.
func Calculate(q *Quantities, catalog *models.Catalog) models.OrderTotals {
	var totals models.OrderTotals

	q.Each(func(id, quantity int) {
		if quantity <= 0 {
			return
		}
		item, ok := catalog.Lookup(id)
		if !ok {
			return
		}
		totals.TotalItems += quantity
		totals.Subtotal += int64(quantity) * item.UnitPrice
	})

	totals.ServiceFee = ServiceFee
	totals.Total = totals.Subtotal + totals.ServiceFee
	return totals
}

// lines returns one entry per menu item in menu order. With withZero false,
// items that were not ordered are left out.
func lines(q *Quantities, catalog *models.Catalog, withZero bool) []models.OrderLine {
	out := make([]models.OrderLine, 0, catalog.Len())
	for _, item := range catalog.Items() {
		n := q.Quantity(item.ID)
		if n <= 0 && !withZero {
			continue
		}
		out = append(out, models.OrderLine{MenuItem: item, Quantity: n})
	}
	return out
}
