package core

import (
	"sync"
)

// PopulationRegistry is a process-wide table of live populations keyed by
// opaque handles. Multiple populations may be created, destroyed and looked
// up from concurrent contexts (one population per island worker), so every
// registry mutation runs under a single exclusive lock held for the minimum
// critical section. The populations themselves are not synchronized.
type PopulationRegistry struct {
	mu   sync.Mutex
	pops map[uint32]*Population
	next uint32
}

// DefaultRegistry is the process-wide registry used by NewPopulation.
var DefaultRegistry = NewPopulationRegistry()

// NewPopulationRegistry creates an empty registry. Handles start at 1; 0 is
// never issued.
func NewPopulationRegistry() *PopulationRegistry {
	return &PopulationRegistry{pops: make(map[uint32]*Population)}
}

// Add registers a population and returns its new handle.
func (r *PopulationRegistry) Add(pop *Population) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.pops[r.next] = pop
	pop.id = r.next
	return r.next
}

// Get returns the population for a handle, or nil.
func (r *PopulationRegistry) Get(id uint32) *Population {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pops[id]
}

// Count returns the number of registered populations.
func (r *PopulationRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pops)
}

// IDs returns the handles of every registered population.
func (r *PopulationRegistry) IDs() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint32, 0, len(r.pops))
	for id := range r.pops {
		ids = append(ids, id)
	}
	return ids
}

// Populations returns every registered population. The returned slice is a
// copy; the populations themselves remain unsynchronized.
func (r *PopulationRegistry) Populations() []*Population {
	r.mu.Lock()
	defer r.mu.Unlock()

	pops := make([]*Population, 0, len(r.pops))
	for _, pop := range r.pops {
		pops = append(pops, pop)
	}
	return pops
}

// Transcend releases a handle and returns the population to the caller for
// analysis. Memory is retained; ownership transfers out of the registry.
func (r *PopulationRegistry) Transcend(id uint32) *Population {
	r.mu.Lock()
	defer r.mu.Unlock()

	pop := r.pops[id]
	delete(r.pops, id)
	return pop
}

// Resurrect restores a previously transcended population into the registry
// under a fresh handle.
func (r *PopulationRegistry) Resurrect(pop *Population) uint32 {
	if pop == nil {
		die("nil population passed for resurrection")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.pops[r.next] = pop
	pop.id = r.next
	return r.next
}

// remove drops a population by reference, returning its handle.
func (r *PopulationRegistry) remove(pop *Population) (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.pops {
		if p == pop {
			delete(r.pops, id)
			return id, true
		}
	}
	return 0, false
}
