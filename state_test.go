package rubedo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewState(0)
		assert.Equal(t, 0, count.Read())

		count.Write(10)
		assert.Equal(t, 10, count.Read())
	})

	t.Run("mut", func(t *testing.T) {
		count := NewState(1)
		count.Mut(func(v int) int { return v + 41 })
		assert.Equal(t, 42, count.Read())
	})

	t.Run("now does not register a dependency", func(t *testing.T) {
		count := NewState(1)
		calls := 0
		d := NewDerived(func() int {
			calls++
			return count.Now()
		})

		assert.Equal(t, 1, d.Read())
		assert.Equal(t, 1, calls)

		count.Write(2)
		assert.Equal(t, 1, d.Read())
		assert.Equal(t, 1, calls)
	})

	t.Run("write with equal value is a no-op", func(t *testing.T) {
		count := NewState(5)
		calls := 0
		d := NewDerived(func() int {
			calls++
			return count.Read()
		})

		assert.Equal(t, 5, d.Read())
		assert.Equal(t, 1, calls)

		count.Write(5)
		assert.Equal(t, 5, d.Read())
		assert.Equal(t, 1, calls)
	})

	t.Run("concurrent read/write", func(t *testing.T) {
		var wg sync.WaitGroup
		count := NewState(0)

		wg.Go(func() {
			count.Write(count.Read() + 1)
		})

		wg.Wait()
		assert.Equal(t, 1, count.Read())
	})

	t.Run("zero values", func(t *testing.T) {
		s := NewState[error](nil)
		assert.Nil(t, s.Read())
	})
}
