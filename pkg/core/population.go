package core

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

// die raises a contract violation. These conditions indicate programmer
// error or corrupted state that cannot be safely continued from.
func die(format string, args ...interface{}) {
	errors.Fatalf(errors.ContractViolation, format, args...)
}

// Population owns one evolving gene pool: the entity pool, two synchronized
// entity views (a stable identity array for id-based lookup and a dense rank
// array for fitness-ordered access), the GA parameters, and the strategy
// callbacks bound at genesis.
//
// A population is not internally synchronized. It must be driven by a single
// logical thread of control; island parallelism exchanges serialized entity
// snapshots through the migration protocol, never live references.
type Population struct {
	id uint32

	size           int
	stableSize     int
	maxSize        int
	numChromosomes int
	lenChromosomes int
	freeIndex      int
	generation     int
	island         int

	pool     *EntityPool
	identity []Handle // slot -> entity, stable for the entity's life
	ranked   []Handle // rank -> entity, fitness-descending after Sort

	rng  *rand.Rand
	data interface{}

	// GA parameters.
	CrossoverRatio float64
	MutationRatio  float64
	MigrationRatio float64
	Scheme         Scheme
	Elitism        Elitism

	// Strategy callbacks. Codec is required before the first entity is
	// allocated; the rest are required by the operations that use them.
	Codec              ChromosomeCodec
	Evaluator          Evaluator
	Seeder             Seeder
	Adapter            Adapter
	SelectOne          SelectorOne
	SelectTwo          SelectorTwo
	Mutator            Mutator
	Crossover          CrossoverOp
	Replacer           Replacer
	GenerationHook     GenerationHook
	IterationHook      IterationHook
	DataDestructor     DataDestructor
	DataRefIncrementor DataRefIncrementor
}

// NewPopulation allocates a population and registers it in the default
// registry. Capacity starts at four times the stable size; the pool and the
// index arrays grow by half whenever exhausted.
func NewPopulation(stableSize, numChromosomes, lenChromosomes int) *Population {
	if stableSize < 1 {
		die("population stable size must be positive (got %d)", stableSize)
	}
	if numChromosomes < 1 {
		die("population must hold at least one chromosome (got %d)", numChromosomes)
	}

	maxSize := stableSize * 4
	pop := &Population{
		stableSize:     stableSize,
		maxSize:        maxSize,
		numChromosomes: numChromosomes,
		lenChromosomes: lenChromosomes,
		freeIndex:      maxSize - 1,
		island:         -1,
		pool:           NewEntityPool(maxSize),
		identity:       make([]Handle, maxSize),
		ranked:         make([]Handle, maxSize),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		CrossoverRatio: 1.0,
		MutationRatio:  1.0,
		MigrationRatio: 1.0,
		Scheme:         SchemeDarwin,
		Elitism:        ElitismUnknown,
	}

	pop.id = DefaultRegistry.Add(pop)
	logging.GetLogger().Debug(context.Background(), "new population id=%d stable=%d max=%d", pop.id, stableSize, maxSize)

	return pop
}

// ID returns the population's registry handle.
func (pop *Population) ID() uint32 { return pop.id }

// Size returns the live entity count.
func (pop *Population) Size() int { return pop.size }

// StableSize returns the target carried-over count per generation.
func (pop *Population) StableSize() int { return pop.stableSize }

// SetStableSize adjusts the target carried-over count.
func (pop *Population) SetStableSize(n int) { pop.stableSize = n }

// MaxSize returns the current pool capacity.
func (pop *Population) MaxSize() int { return pop.maxSize }

// NumChromosomes returns the chromosome slot count per entity.
func (pop *Population) NumChromosomes() int { return pop.numChromosomes }

// LenChromosomes returns the encoding-defined chromosome length. Advisory
// for codecs with variable-length encodings.
func (pop *Population) LenChromosomes() int { return pop.lenChromosomes }

// Generation returns the current generation counter.
func (pop *Population) Generation() int { return pop.generation }

// SetGeneration sets the generation counter. Intended for the engine.
func (pop *Population) SetGeneration(g int) { pop.generation = g }

// Island returns the island index for archipelago runs, -1 otherwise.
func (pop *Population) Island() int { return pop.island }

// SetIsland tags the population with an island index.
func (pop *Population) SetIsland(i int) { pop.island = i }

// Data returns the opaque user data reference.
func (pop *Population) Data() interface{} { return pop.data }

// SetData attaches an opaque user data reference.
func (pop *Population) SetData(data interface{}) { pop.data = data }

// RNG returns the population's random source. All stochastic operators draw
// from it so a fixed seed reproduces a run exactly.
func (pop *Population) RNG() *rand.Rand { return pop.rng }

// SeedRNG makes the run deterministic under the given seed.
func (pop *Population) SeedRNG(seed int64) {
	pop.rng = rand.New(rand.NewSource(seed))
}

// SetParameters sets the evolutionary scheme, elitism policy and operator
// ratios in one call.
func (pop *Population) SetParameters(scheme Scheme, elitism Elitism, crossover, mutation, migration float64) {
	pop.Scheme = scheme
	pop.Elitism = elitism
	pop.CrossoverRatio = crossover
	pop.MutationRatio = mutation
	pop.MigrationRatio = migration
}

// growArrays extends the identity and rank arrays to floor(1.5 x capacity),
// preserving existing slots. The pool grows on its own when drained.
func (pop *Population) growArrays() {
	newMax := (pop.maxSize * 3) / 2
	logging.GetLogger().Debug(context.Background(), "population %d growing %d -> %d", pop.id, pop.maxSize, newMax)

	identity := make([]Handle, newMax)
	copy(identity, pop.identity)
	ranked := make([]Handle, newMax)
	copy(ranked, pop.ranked)

	pop.identity = identity
	pop.ranked = ranked
	pop.maxSize = newMax
	pop.freeIndex = newMax - 1
}

// GetFreeEntity allocates an unused entity record, binds it to the first
// free identity slot found scanning backward from the cursor (wrapping at
// zero), appends it to the rank array, and returns it with constructed
// chromosomes and unevaluated fitness.
func (pop *Population) GetFreeEntity() *Entity {
	if pop.Codec == nil {
		die("chromosome codec is not defined")
	}
	if pop.maxSize == pop.size+1 {
		pop.growArrays()
	}

	// Cycle the free-index cursor to an unused identity slot.
	for !pop.identity[pop.freeIndex].IsNil() {
		if pop.freeIndex == 0 {
			pop.freeIndex = pop.maxSize
		}
		pop.freeIndex--
	}

	h, e := pop.pool.Allocate()
	pop.identity[pop.freeIndex] = h

	pop.Codec.Construct(pop, e)
	e.Data = nil
	e.Fitness = MinFitness

	pop.ranked[pop.size] = h
	pop.size++

	return e
}

// EntityByRank returns the entity at the given rank, or nil when out of
// range. Rank 0 is the best entity after Sort.
func (pop *Population) EntityByRank(rank int) *Entity {
	if rank < 0 || rank >= pop.size {
		return nil
	}
	return pop.pool.Get(pop.ranked[rank])
}

// HandleByRank returns the generation-checked handle at the given rank.
func (pop *Population) HandleByRank(rank int) Handle {
	if rank < 0 || rank >= pop.size {
		return Handle{}
	}
	return pop.ranked[rank]
}

// EntityByHandle resolves a handle, returning nil if it has gone stale.
func (pop *Population) EntityByHandle(h Handle) *Entity {
	return pop.pool.Get(h)
}

// EntityByID returns the entity in the given identity slot, or nil.
func (pop *Population) EntityByID(id int) *Entity {
	if id < 0 || id >= pop.maxSize {
		return nil
	}
	return pop.pool.Get(pop.identity[id])
}

// EntityID finds an entity's identity slot by linear scan, -1 if absent.
// Population sizes stay in the low thousands, so the scan is acceptable.
func (pop *Population) EntityID(e *Entity) int {
	for id := 0; id < pop.maxSize; id++ {
		if !pop.identity[id].IsNil() && pop.pool.Get(pop.identity[id]) == e {
			return id
		}
	}
	return -1
}

// RankOf finds an entity's rank by linear scan, -1 if absent. Only a
// fitness rank if the population has been sorted.
func (pop *Population) RankOf(e *Entity) int {
	for rank := 0; rank < pop.size; rank++ {
		if pop.pool.Get(pop.ranked[rank]) == e {
			return rank
		}
	}
	return -1
}

// IDFromRank translates a rank to an identity slot, -1 if out of range.
func (pop *Population) IDFromRank(rank int) int {
	if rank < 0 || rank >= pop.size {
		return -1
	}
	h := pop.ranked[rank]
	for id := 0; id < pop.maxSize; id++ {
		if pop.identity[id] == h {
			return id
		}
	}
	return -1
}

// RankFromID translates an identity slot to a rank, -1 if empty.
func (pop *Population) RankFromID(id int) int {
	if id < 0 || id >= pop.maxSize || pop.identity[id].IsNil() {
		return -1
	}
	h := pop.identity[id]
	for rank := 0; rank < pop.size; rank++ {
		if pop.ranked[rank] == h {
			return rank
		}
	}
	return -1
}

// destructData tears down an entity's phenome list through the population's
// destructor hook.
func (pop *Population) destructData(e *Entity) {
	if e.Data == nil {
		return
	}
	if pop.DataDestructor != nil {
		for _, item := range e.Data {
			if item != nil {
				pop.DataDestructor(item)
			}
		}
	}
	e.Data = nil
}

// DereferenceByRank returns the entity at the given rank to the pool. The
// rank array is compacted in place, preserving the relative order of the
// remaining entities; the identity slot is released for reuse.
func (pop *Population) DereferenceByRank(rank int) {
	if rank < 0 || rank >= pop.size {
		die("invalid entity rank %d (size %d)", rank, pop.size)
	}
	h := pop.ranked[rank]
	dying := pop.pool.Get(h)
	if dying == nil {
		die("invalid entity rank %d", rank)
	}

	pop.destructData(dying)
	pop.size--

	if dying.Chromosomes != nil {
		pop.Codec.Destruct(pop, dying)
	}

	// Close the gap so there are no holes in the rank array.
	copy(pop.ranked[rank:pop.size], pop.ranked[rank+1:pop.size+1])
	pop.ranked[pop.size] = Handle{}

	for id := 0; id < pop.maxSize; id++ {
		if pop.identity[id] == h {
			pop.identity[id] = Handle{}
			break
		}
	}

	pop.pool.Release(h)
}

// DereferenceByID returns the entity in the given identity slot to the pool.
func (pop *Population) DereferenceByID(id int) {
	if id < 0 || id >= pop.maxSize || pop.identity[id].IsNil() {
		die("invalid entity id %d", id)
	}
	rank := pop.RankFromID(id)
	if rank < 0 {
		die("entity id %d missing from rank array", id)
	}
	pop.DereferenceByRank(rank)
}

// Dereference returns an entity to the pool by reference.
func (pop *Population) Dereference(dying *Entity) {
	rank := pop.RankOf(dying)
	if rank < 0 {
		die("entity is not a member of this population")
	}
	pop.DereferenceByRank(rank)
}

// Blank resets an entity for reuse in place: phenome destroyed, fitness
// unevaluated, chromosomes intact. Cheaper than dereference plus allocate.
func (pop *Population) Blank(e *Entity) {
	pop.destructData(e)
	e.Fitness = MinFitness
}

// CopyData copies one chromosome's phenome entry from src to dst, appending
// in order. Absent entries append nil; present entries are shared and the
// reference-increment hook is invoked.
func (pop *Population) CopyData(dst, src *Entity, chromosome int) {
	if src == nil || chromosome >= len(src.Data) || src.Data[chromosome] == nil {
		dst.Data = append(dst.Data, nil)
		return
	}
	if pop.DataRefIncrementor == nil {
		die("phenome data is shared but no reference incrementor is defined")
	}
	dst.Data = append(dst.Data, src.Data[chromosome])
	pop.DataRefIncrementor(src.Data[chromosome])
}

// CopyAllChromosomes copies phenome entries and deep-copies every gene
// encoding from src into dst. dst must be freshly allocated: copying into an
// entity that already carries data is a caller error.
func (pop *Population) CopyAllChromosomes(dst, src *Entity) {
	if dst == nil || src == nil {
		die("nil entity passed to chromosome copy")
	}
	if dst.Data != nil {
		die("destination entity already contains data")
	}

	for i := 0; i < pop.numChromosomes; i++ {
		pop.CopyData(dst, src, i)
		pop.Codec.Replicate(pop, src, dst, i)
	}
}

// CopyChromosome copies a single chromosome and its phenome entry.
func (pop *Population) CopyChromosome(dst, src *Entity, chromosome int) {
	if dst == nil || src == nil {
		die("nil entity passed to chromosome copy")
	}
	if chromosome < 0 || chromosome >= pop.numChromosomes {
		die("chromosome index %d out of range", chromosome)
	}
	if dst.Data != nil {
		die("destination entity already contains data")
	}

	pop.CopyData(dst, src, chromosome)
	pop.Codec.Replicate(pop, src, dst, chromosome)
}

// CopyEntity copies chromosomes, phenome and fitness between entities.
func (pop *Population) CopyEntity(dst, src *Entity) {
	pop.CopyAllChromosomes(dst, src)
	dst.Fitness = src.Fitness
}

// CloneEntity allocates a fresh entity and copies the parent into it. The
// parent is never mutated. Safe across compatible populations.
func (pop *Population) CloneEntity(parent *Entity) *Entity {
	dolly := pop.GetFreeEntity()
	pop.CopyAllChromosomes(dolly, parent)
	dolly.Fitness = parent.Fitness
	return dolly
}

// Evaluate scores a single entity through the objective callback.
func (pop *Population) Evaluate(e *Entity) float64 {
	if e == nil {
		die("nil entity passed for evaluation")
	}
	if pop.Evaluator == nil {
		die("evaluation callback not defined")
	}
	pop.Evaluator.Evaluate(pop, e)
	return e.Fitness
}

// SeedEntity fills one entity with genes through the seed callback.
func (pop *Population) SeedEntity(adam *Entity) bool {
	if pop.Seeder == nil {
		die("population seeding function is not defined")
	}
	return pop.Seeder.Seed(pop, adam)
}

// Seed allocates and seeds stableSize entities.
func (pop *Population) Seed() {
	if pop.Seeder == nil {
		die("population seeding function is not defined")
	}
	for i := 0; i < pop.stableSize; i++ {
		adam := pop.GetFreeEntity()
		pop.Seeder.Seed(pop, adam)
	}
}

// Sort orders the rank array by descending fitness. The sort is stable:
// fitness ties keep their relative order, so runs are deterministic under a
// fixed random seed.
func (pop *Population) Sort() {
	live := pop.ranked[:pop.size]
	sort.SliceStable(live, func(i, j int) bool {
		return pop.pool.Get(live[i]).Fitness > pop.pool.Get(live[j]).Fitness
	})
}

// ScoreAndSort evaluates every entity and sorts the rank array. Useful
// after changing the objective function.
func (pop *Population) ScoreAndSort() {
	if pop.Evaluator == nil {
		die("evaluation callback not defined")
	}
	for i := 0; i < pop.size; i++ {
		pop.Evaluator.Evaluate(pop, pop.pool.Get(pop.ranked[i]))
	}
	pop.Sort()
}

// Genocide dereferences the lowest-ranked entities until the population is
// down to targetSize.
func (pop *Population) Genocide(targetSize int) {
	if targetSize < 0 {
		targetSize = 0
	}
	logging.GetLogger().Debug(context.Background(), "population %d culled from %d to %d", pop.id, pop.size, targetSize)

	for pop.size > targetSize {
		pop.DereferenceByRank(pop.size - 1)
	}
}

// CloneEmpty allocates a new population with identical parameters and
// callbacks but no entities. The user data reference is shared, not copied.
// The clone gets its own registry handle and random source.
func (pop *Population) CloneEmpty() *Population {
	clone := NewPopulation(pop.stableSize, pop.numChromosomes, pop.lenChromosomes)

	clone.CrossoverRatio = pop.CrossoverRatio
	clone.MutationRatio = pop.MutationRatio
	clone.MigrationRatio = pop.MigrationRatio
	clone.Scheme = pop.Scheme
	clone.Elitism = pop.Elitism
	clone.data = pop.data

	clone.Codec = pop.Codec
	clone.Evaluator = pop.Evaluator
	clone.Seeder = pop.Seeder
	clone.Adapter = pop.Adapter
	clone.SelectOne = pop.SelectOne
	clone.SelectTwo = pop.SelectTwo
	clone.Mutator = pop.Mutator
	clone.Crossover = pop.Crossover
	clone.Replacer = pop.Replacer
	clone.GenerationHook = pop.GenerationHook
	clone.IterationHook = pop.IterationHook
	clone.DataDestructor = pop.DataDestructor
	clone.DataRefIncrementor = pop.DataRefIncrementor

	return clone
}

// Clone copies the population including every entity. Entity ids do not
// correspond between the original and the clone.
func (pop *Population) Clone() *Population {
	clone := pop.CloneEmpty()
	for i := 0; i < pop.size; i++ {
		fresh := clone.GetFreeEntity()
		clone.CopyEntity(fresh, pop.pool.Get(pop.ranked[i]))
	}
	return clone
}

// Extinction removes the population from the default registry and tears
// down every entity. User data still attached is a potential leak and is
// only warned about.
func (pop *Population) Extinction() {
	if _, ok := DefaultRegistry.remove(pop); !ok {
		die("population is not present in the registry")
	}

	if pop.data != nil {
		logging.GetLogger().Warn(context.Background(), "population %d user data field is not empty (potential leak)", pop.id)
	}

	pop.Genocide(0)
	pop.identity = nil
	pop.ranked = nil
	pop.pool = nil
}
