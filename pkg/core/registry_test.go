package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndGet(t *testing.T) {
	r := NewPopulationRegistry()
	pop := &Population{}

	id := r.Add(pop)
	assert.NotZero(t, id)
	assert.Same(t, pop, r.Get(id))
	assert.Equal(t, 1, r.Count())
	assert.Nil(t, r.Get(id+1))
}

func TestRegistryHandlesAreNeverReissued(t *testing.T) {
	r := NewPopulationRegistry()
	a := r.Add(&Population{})
	r.Transcend(a)
	b := r.Add(&Population{})
	assert.NotEqual(t, a, b)
}

func TestTranscendAndResurrect(t *testing.T) {
	r := NewPopulationRegistry()
	pop := &Population{}
	id := r.Add(pop)

	got := r.Transcend(id)
	assert.Same(t, pop, got)
	assert.Nil(t, r.Get(id))
	assert.Equal(t, 0, r.Count())

	newID := r.Resurrect(pop)
	assert.NotEqual(t, id, newID)
	assert.Same(t, pop, r.Get(newID))
	assert.Equal(t, newID, pop.ID())
}

func TestResurrectNilPanics(t *testing.T) {
	r := NewPopulationRegistry()
	assert.Panics(t, func() { r.Resurrect(nil) })
}

func TestRegistryEnumeration(t *testing.T) {
	r := NewPopulationRegistry()
	a := r.Add(&Population{})
	b := r.Add(&Population{})

	ids := r.IDs()
	assert.ElementsMatch(t, []uint32{a, b}, ids)
	assert.Len(t, r.Populations(), 2)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewPopulationRegistry()

	var wg sync.WaitGroup
	ids := make([]uint32, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = r.Add(&Population{})
			r.Get(ids[i])
			r.Count()
		}(i)
	}
	wg.Wait()

	require.Equal(t, 64, r.Count())
	seen := make(map[uint32]bool, 64)
	for _, id := range ids {
		assert.False(t, seen[id], "handle %d issued twice", id)
		seen[id] = true
		assert.NotNil(t, r.Get(id))
	}
}
