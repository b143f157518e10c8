package core

import (
	"github.com/XiaoConstantine/evo-go/pkg/errors"
)

// Handle is a generation-checked reference to a pooled entity record. The
// zero Handle is the null handle. A handle goes stale when its record is
// released; Get on a stale handle returns nil instead of aliasing whatever
// entity reuses the slot.
type Handle struct {
	slot uint32
	gen  uint32
}

// IsNil reports whether the handle references nothing.
func (h Handle) IsNil() bool {
	return h.gen == 0
}

type entityRecord struct {
	gen  uint32
	live bool
	ent  Entity
}

// EntityPool is a slab allocator of entity records. It is the sole memory
// owner for one population's entities: records are recycled through a free
// stack rather than freed, and the backing storage never shrinks. Entity
// pointers remain stable for the life of the pool because records live in
// fixed slabs; only the index table is reallocated on growth.
type EntityPool struct {
	records []*entityRecord // slot -> record
	free    []uint32        // stack of released slots
}

// NewEntityPool creates a pool with the given initial capacity.
func NewEntityPool(capacity int) *EntityPool {
	if capacity < 1 {
		capacity = 1
	}
	p := &EntityPool{}
	p.grow(capacity)
	return p
}

// grow appends a fresh slab of n records and pushes its slots on the free
// stack. Slots are pushed in reverse so allocation hands them out in
// ascending order.
func (p *EntityPool) grow(n int) {
	base := len(p.records)
	slab := make([]entityRecord, n)
	for i := 0; i < n; i++ {
		p.records = append(p.records, &slab[i])
	}
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, uint32(base+i))
	}
}

// Allocate returns an unused, zero-initialized entity record in amortized
// O(1). The pool grows to floor(1.5 x capacity) when exhausted.
func (p *EntityPool) Allocate() (Handle, *Entity) {
	if len(p.free) == 0 {
		// 1.5x growth, same policy as the population index arrays.
		p.grow(len(p.records)/2 + 1)
	}

	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	rec := p.records[slot]
	rec.gen++
	rec.live = true
	rec.ent = Entity{}

	return Handle{slot: slot, gen: rec.gen}, &rec.ent
}

// Get resolves a handle to its entity. Returns nil for the null handle, a
// stale handle, or a released record.
func (p *EntityPool) Get(h Handle) *Entity {
	if h.IsNil() || int(h.slot) >= len(p.records) {
		return nil
	}
	rec := p.records[h.slot]
	if !rec.live || rec.gen != h.gen {
		return nil
	}
	return &rec.ent
}

// Release returns a record to the free set without deallocating the backing
// memory. Releasing a stale or already-released handle is a contract
// violation.
func (p *EntityPool) Release(h Handle) {
	if h.IsNil() || int(h.slot) >= len(p.records) {
		errors.Fatalf(errors.ContractViolation, "release of invalid entity handle (slot %d)", h.slot)
	}
	rec := p.records[h.slot]
	if !rec.live || rec.gen != h.gen {
		errors.Fatalf(errors.ContractViolation, "release of stale entity handle (slot %d gen %d)", h.slot, h.gen)
	}
	rec.live = false
	p.free = append(p.free, h.slot)
}

// Capacity returns the total number of records the pool holds.
func (p *EntityPool) Capacity() int {
	return len(p.records)
}

// Live returns the number of records currently allocated.
func (p *EntityPool) Live() int {
	return len(p.records) - len(p.free)
}
