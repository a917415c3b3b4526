package order

import "sort"

// Quantities maps menu item ids to the number of units requested.
// An absent id reads as zero and no stored quantity is ever negative.
// The zero value is an empty, ready to use container.
type Quantities struct {
	byID map[int]int
}

// Quantity returns the count for id, zero when absent.
func (q *Quantities) Quantity(id int) int {
	return q.byID[id]
}

// Increase adds one unit. There is no upper bound.
func (q *Quantities) Increase(id int) {
	if q.byID == nil {
		q.byID = make(map[int]int)
	}
	q.byID[id]++
}

// Decrease removes one unit, clamping at zero. Decreasing an absent id
// leaves the container untouched.
func (q *Quantities) Decrease(id int) {
	n, ok := q.byID[id]
	if !ok {
		return
	}
	if n <= 1 {
		delete(q.byID, id)
		return
	}
	q.byID[id] = n - 1
}

// Each calls fn for every stored entry in ascending id order.
func (q *Quantities) Each(fn func(id, quantity int)) {
	ids := make([]int, 0, len(q.byID))
	for id := range q.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, q.byID[id])
	}
}

// Len reports the number of ids with a positive quantity.
func (q *Quantities) Len() int {
	return len(q.byID)
}

func (q *Quantities) Reset() {
	q.byID = nil
}

func (q *Quantities) clone() Quantities {
	if len(q.byID) == 0 {
		return Quantities{}
	}
	out := make(map[int]int, len(q.byID))
	for id, n := range q.byID {
		out[id] = n
	}
	return Quantities{byID: out}
}
