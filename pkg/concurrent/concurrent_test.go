package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsEveryElementOnce(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 3, 8, 100} {
		items := make([]*atomic.Int32, 37)
		for i := range items {
			items[i] = &atomic.Int32{}
		}

		err := ForEach(context.Background(), items, workers, func(v *atomic.Int32) error {
			v.Add(1)
			return nil
		})
		require.NoError(t, err)

		for i, v := range items {
			assert.Equal(t, int32(1), v.Load(), "workers=%d item=%d", workers, i)
		}
	}
}

func TestForEachReturnsError(t *testing.T) {
	boom := errors.New("boom")
	items := []int{1, 2, 3, 4, 5, 6}

	for _, workers := range []int{1, 3} {
		err := ForEach(context.Background(), items, workers, func(v int) error {
			if v == 4 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom)
	}
}

func TestForEachHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := ForEach(ctx, []int{1, 2}, 1, func(int) error { calls++; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
