package order

import (
	"context"
	"sync"
	"time"

	"coffee-order/internal/models"
)

// Sender delivers a finished order. Any returned error counts as a failed
// delivery.
type Sender interface {
	Send(ctx context.Context, payload models.OrderPayload) error
}

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Form is the state of one customer's order form: quantities, contact
// details and whether a submission is in flight. It is safe for concurrent
// use.
type Form struct {
	mu         sync.Mutex
	catalog    *models.Catalog
	quantities Quantities
	customer   models.Customer
	submitting bool
	now        func() time.Time
}

// View is a consistent read of a Form.
type View struct {
	Items      []models.OrderLine `json:"items"`
	Totals     models.OrderTotals `json:"totals"`
	Customer   models.Customer    `json:"customer"`
	Submitting bool               `json:"submitting"`
}

// CanSubmit mirrors the enabled state of the submit button.
func (v View) CanSubmit() bool {
	return v.Totals.TotalItems > 0 && !v.Submitting
}

func NewForm(catalog *models.Catalog) *Form {
	return &Form{catalog: catalog, now: time.Now}
}

func (f *Form) Increase(itemID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities.Increase(itemID)
}

func (f *Form) Decrease(itemID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities.Decrease(itemID)
}

func (f *Form) Quantity(itemID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quantities.Quantity(itemID)
}

func (f *Form) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer.Name = name
}

func (f *Form) SetPhone(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer.Phone = phone
}

func (f *Form) SetAddress(address string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer.Address = address
}

func (f *Form) SetCustomer(c models.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customer = c
}

func (f *Form) Totals() models.OrderTotals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Calculate(&f.quantities, f.catalog)
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return View{
		Items:      lines(&f.quantities, f.catalog, true),
		Totals:     Calculate(&f.quantities, f.catalog),
		Customer:   f.customer,
		Submitting: f.submitting,
	}
}

// Submit validates the form, sends one order through sender and resets the
// form when the send succeeds. On failure the form is left as it was. The
// form is unlocked while sender runs, so other edits are still accepted.
func (f *Form) Submit(ctx context.Context, sender Sender) error {
	payload, err := f.begin()
	if err != nil {
		return err
	}

	sent := false
	defer func() { f.end(sent) }()

	if err := sender.Send(ctx, payload); err != nil {
		return err
	}
	sent = true
	return nil
}

func (f *Form) begin() (models.OrderPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return models.OrderPayload{}, ErrSubmissionInProgress
	}

	totals := Calculate(&f.quantities, f.catalog)
	if totals.TotalItems == 0 {
		return models.OrderPayload{}, ValidationError{Field: "items", Message: MsgSelectItem}
	}
	if f.customer.Name == "" || f.customer.Phone == "" {
		return models.OrderPayload{}, ValidationError{Field: "customer", Message: MsgNameAndPhone}
	}

	f.submitting = true
	return models.OrderPayload{
		Customer:  f.customer,
		Items:     lines(&f.quantities, f.catalog, false),
		Totals:    totals,
		Timestamp: f.now().UTC().Format(timestampLayout),
	}, nil
}

func (f *Form) end(sent bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sent {
		f.quantities.Reset()
		f.customer = models.Customer{}
	}
	f.submitting = false
}
