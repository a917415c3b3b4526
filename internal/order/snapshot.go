package order

import "coffee-order/internal/models"

// Snapshot is the storable part of a Form. The submitting flag belongs to
// the running process and is never part of it.
type Snapshot struct {
	Lines    []SnapshotLine  `json:"lines" bson:"lines"`
	Customer models.Customer `json:"customer" bson:"customer"`
}

type SnapshotLine struct {
	ItemID   int `json:"itemId" bson:"itemId"`
	Quantity int `json:"quantity" bson:"quantity"`
}

// IsEmpty reports whether the snapshot holds nothing worth keeping.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0 && s.Customer == (models.Customer{})
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	q := f.quantities.clone()
	c := f.customer
	f.mu.Unlock()

	s := Snapshot{Customer: c}
	q.Each(func(id, quantity int) {
		s.Lines = append(s.Lines, SnapshotLine{ItemID: id, Quantity: quantity})
	})
	return s
}

// RestoreForm rebuilds a Form from a snapshot. Lines with a non-positive
// quantity are dropped.
func RestoreForm(catalog *models.Catalog, s Snapshot) *Form {
	f := NewForm(catalog)
	f.customer = s.Customer
	for _, line := range s.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if f.quantities.byID == nil {
			f.quantities.byID = make(map[int]int, len(s.Lines))
		}
		f.quantities.byID[line.ItemID] += line.Quantity
	}
	return f
}
