package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("a", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = r.Register("a", 2)
	require.NoError(t, err)
	assert.False(t, isNew)

	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	_, err = r.Register("", 3)
	assert.Error(t, err)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	creator := func() (string, error) {
		calls++
		return "created", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.GetOrCreate("x", creator)
			assert.NoError(t, err)
			assert.Equal(t, "created", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)

	_, err := r.GetOrCreate("y", func() (string, error) { return "", errors.New("boom") })
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"x"}, r.Names())
}
