package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddCoalescesSameProduct(t *testing.T) {
	t.Parallel()

	c := New()
	p := Product{ID: 1, Name: "Pizza", Price: 30.00}

	for i := 0; i < 5; i++ {
		c.Add(p)
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCart_AddAppendsNewLinesAtEnd(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(Product{ID: 1, Name: "Pizza", Price: 30.00})
	c.Add(Product{ID: 2, Name: "Soda", Price: 5.00})
	c.Add(Product{ID: 1, Name: "Pizza", Price: 30.00})
	c.Add(Product{ID: 3, Name: "Fries", Price: 12.50})

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, int64(2), lines[1].ProductID)
	assert.Equal(t, int64(3), lines[2].ProductID)
}

func TestCart_RemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(Product{ID: 1, Name: "Pizza", Price: 30.00})

	removed := c.Remove(99)
	assert.False(t, removed)
	require.Len(t, c.Lines(), 1)

	// idempotent on an empty cart too
	c.Clear()
	assert.False(t, c.Remove(1))
	assert.Empty(t, c.Lines())
}

func TestCart_ClearZeroesTotal(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(Product{ID: 1, Name: "Pizza", Price: 30.00})
	c.Add(Product{ID: 2, Name: "Soda", Price: 5.00})
	require.NotZero(t, c.Total())

	c.Clear()
	assert.Zero(t, c.Total())
	assert.Zero(t, c.Count())
	assert.Empty(t, c.Lines())
}

func TestCart_TotalsScenario(t *testing.T) {
	t.Parallel()

	c := New()
	pizza := Product{ID: 1, Name: "Pizza", Price: 30.00}
	soda := Product{ID: 2, Name: "Soda", Price: 5.00}

	c.Add(pizza)
	c.Add(pizza)
	c.Add(soda)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.InDelta(t, 60.00, lines[0].Subtotal(), 1e-9)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.InDelta(t, 5.00, lines[1].Subtotal(), 1e-9)
	assert.InDelta(t, 65.00, c.Total(), 1e-9)
	assert.Equal(t, 3, c.Count())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(Product{ID: 1, Name: "Pizza", Price: 30.00})

	lines := c.Lines()
	lines[0].Quantity = 42

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
