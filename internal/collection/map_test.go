package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	sum := 0
	m.Range(func(key string, value int) bool {
		sum += value
		m.Delete(key)
		return true
	})
	assert.Equal(t, 3, sum)
	_, ok = m.Get("a")
	assert.False(t, ok)

	_, ok = m.Delete("missing")
	assert.False(t, ok)
}
