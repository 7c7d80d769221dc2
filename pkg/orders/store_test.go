package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	s := newStore()
	for i := 1; i <= 100; i++ {
		s.put(Order{ID: OrderID(i), UserID: "u", Type: Buy})
	}

	assert.Equal(t, 100, s.len())
	assert.Len(t, s.snapshot(), 100)

	o, ok := s.remove(33)
	assert.True(t, ok)
	assert.Equal(t, OrderID(33), o.ID)

	_, ok = s.remove(33)
	assert.False(t, ok)
	_, ok = s.get(33)
	assert.False(t, ok)

	o, ok = s.get(65)
	assert.True(t, ok)
	assert.Equal(t, OrderID(65), o.ID)
	assert.Equal(t, 99, s.len())
}
