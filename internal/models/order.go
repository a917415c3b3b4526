package models

// OrderTotals is derived from the current quantities and never stored.
type OrderTotals struct {
	TotalItems int   `json:"totalItems"`
	Subtotal   int64 `json:"subtotal"`
	ServiceFee int64 `json:"serviceFee"`
	Total      int64 `json:"total"`
}

// OrderLine is a menu item together with the quantity ordered.
type OrderLine struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// OrderPayload is the document posted to the order webhook.
type OrderPayload struct {
	Customer  Customer    `json:"customer"`
	Items     []OrderLine `json:"items"`
	Totals    OrderTotals `json:"totals"`
	Timestamp string      `json:"timestamp"`
}
