package events

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitMatchesCollection(t *testing.T) {
	bus := NewBus()
	var all, ideas, users atomic.Int32

	bus.OnDataChanged("", func(ctx context.Context, e DataChangeEvent) { all.Add(1) })
	bus.OnDataChanged("ideas", func(ctx context.Context, e DataChangeEvent) { ideas.Add(1) })
	bus.OnDataChanged("users", func(ctx context.Context, e DataChangeEvent) { users.Add(1) })

	bus.EmitDataChanged(context.Background(), DataChangeEvent{CollectionName: "ideas", Operation: OpInsert})
	bus.Wait()

	assert.Equal(t, int32(1), all.Load())
	assert.Equal(t, int32(1), ideas.Load())
	assert.Equal(t, int32(0), users.Load())
}

func TestBus_HandlerSurvivesCancelAndPanic(t *testing.T) {
	bus := NewBus()
	var sawCancel atomic.Bool
	bus.OnDataChanged("", func(ctx context.Context, e DataChangeEvent) { panic("boom") })
	bus.OnDataChanged("", func(ctx context.Context, e DataChangeEvent) { sawCancel.Store(ctx.Err() != nil) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.EmitDataChanged(ctx, DataChangeEvent{CollectionName: "x"})
	bus.Wait()

	assert.False(t, sawCancel.Load())
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() {
		bus.EmitDataChanged(context.Background(), DataChangeEvent{})
	})
}
