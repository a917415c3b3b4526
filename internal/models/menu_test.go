package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsDuplicateIDs(t *testing.T) {
	_, err := NewCatalog([]MenuItem{
		{ID: 1, Name: "A", UnitPrice: 1},
		{ID: 1, Name: "B", UnitPrice: 2},
	})
	assert.Error(t, err)
}

func TestNewCatalogRejectsBadItems(t *testing.T) {
	_, err := NewCatalog([]MenuItem{{ID: 0, Name: "zero"}})
	assert.Error(t, err)

	_, err = NewCatalog([]MenuItem{{ID: 2, Name: "neg", UnitPrice: -1}})
	assert.Error(t, err)
}

func TestCatalogIsNotMutatedThroughItems(t *testing.T) {
	items := CoffeeMenu.Items()
	items[0].UnitPrice = 1

	espresso, ok := CoffeeMenu.Lookup(1)
	require.True(t, ok)
	assert.EqualValues(t, 15000, espresso.UnitPrice)
}

func TestCoffeeMenuLookup(t *testing.T) {
	assert.Equal(t, 6, CoffeeMenu.Len())

	latte, ok := CoffeeMenu.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Latte", latte.Name)
	assert.EqualValues(t, 22000, latte.UnitPrice)

	_, ok = CoffeeMenu.Lookup(99)
	assert.False(t, ok)
}

func TestOrderLineFlattensMenuItem(t *testing.T) {
	body, err := json.Marshal(OrderLine{
		MenuItem: MenuItem{ID: 3, Name: "Latte", UnitPrice: 22000, Glyph: "☕"},
		Quantity: 2,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"Latte","unitPrice":22000,"glyph":"☕","quantity":2}`, string(body))
}
