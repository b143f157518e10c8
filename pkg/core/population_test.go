package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteCodec is a minimal char-style codec for exercising the population
// machinery without pulling in the operators package.
type byteCodec struct{}

func (byteCodec) Name() string { return "" }

func (byteCodec) Construct(pop *Population, e *Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]byte, pop.LenChromosomes())
	}
}

func (byteCodec) Destruct(pop *Population, e *Entity) {
	e.Chromosomes = nil
}

func (byteCodec) Replicate(pop *Population, src, dst *Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]byte), src.Chromosomes[chromosome].([]byte))
}

func (byteCodec) ToBytes(pop *Population, e *Entity) []byte {
	var buf []byte
	for _, c := range e.Chromosomes {
		buf = append(buf, c.([]byte)...)
	}
	return buf
}

func (byteCodec) FromBytes(pop *Population, e *Entity, buf []byte) {
	for i, c := range e.Chromosomes {
		copy(c.([]byte), buf[i*pop.LenChromosomes():])
	}
}

func (byteCodec) ToString(pop *Population, e *Entity) string {
	return string(e.Chromosomes[0].([]byte))
}

// sumScore makes fitness the sum of the first chromosome's bytes.
var sumScore = EvaluatorFunc(func(pop *Population, e *Entity) bool {
	total := 0.0
	for _, b := range e.Chromosomes[0].([]byte) {
		total += float64(b)
	}
	e.Fitness = total
	return true
})

func newTestPopulation(t *testing.T, stableSize int) *Population {
	t.Helper()
	pop := NewPopulation(stableSize, 1, 4)
	pop.Codec = byteCodec{}
	pop.Evaluator = sumScore
	pop.SeedRNG(1)
	return pop
}

func addEntity(pop *Population, fill byte) *Entity {
	e := pop.GetFreeEntity()
	alleles := e.Chromosomes[0].([]byte)
	for i := range alleles {
		alleles[i] = fill
	}
	return e
}

func TestGenesisInvariants(t *testing.T) {
	pop := newTestPopulation(t, 10)
	defer pop.Extinction()

	assert.Equal(t, 0, pop.Size())
	assert.Equal(t, 10, pop.StableSize())
	assert.Equal(t, 40, pop.MaxSize(), "capacity starts at four times stable size")
	assert.Equal(t, -1, pop.Island())
	assert.Equal(t, 1.0, pop.CrossoverRatio)
	assert.NotZero(t, pop.ID())
	assert.Same(t, pop, DefaultRegistry.Get(pop.ID()))
}

func TestGenesisRejectsBadDimensions(t *testing.T) {
	assert.Panics(t, func() { NewPopulation(0, 1, 4) })
	assert.Panics(t, func() { NewPopulation(10, 0, 4) })
}

func TestGetFreeEntity(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	e := pop.GetFreeEntity()
	require.NotNil(t, e)
	assert.Equal(t, 1, pop.Size())
	assert.Equal(t, MinFitness, e.Fitness)
	assert.False(t, e.Evaluated())
	require.Len(t, e.Chromosomes, 1)
	assert.Len(t, e.Chromosomes[0].([]byte), 4)
	assert.Same(t, e, pop.EntityByRank(0))
}

func TestGetFreeEntityRequiresCodec(t *testing.T) {
	pop := NewPopulation(4, 1, 4)
	defer func() {
		pop.Codec = byteCodec{}
		pop.Extinction()
	}()
	assert.Panics(t, func() { pop.GetFreeEntity() })
}

func TestGrowthWhenNearlyFull(t *testing.T) {
	pop := newTestPopulation(t, 2) // maxSize 8
	defer pop.Extinction()

	for i := 0; i < 7; i++ {
		addEntity(pop, byte(i))
	}
	assert.Equal(t, 8, pop.MaxSize())

	// The next allocation would leave zero headroom, which triggers the
	// 1.5x growth first.
	addEntity(pop, 7)
	assert.Equal(t, 12, pop.MaxSize())
	assert.Equal(t, 8, pop.Size())

	// Existing entities survive the reallocation.
	for rank := 0; rank < 8; rank++ {
		require.NotNil(t, pop.EntityByRank(rank))
	}
}

func TestFreeIndexCyclesBackward(t *testing.T) {
	pop := newTestPopulation(t, 2)
	defer pop.Extinction()

	addEntity(pop, 1)
	addEntity(pop, 2)

	// The cursor starts at the top of the identity array and walks down.
	assert.NotNil(t, pop.EntityByID(pop.MaxSize()-1))
	assert.NotNil(t, pop.EntityByID(pop.MaxSize()-2))
}

func TestSortDescendingAndStable(t *testing.T) {
	pop := newTestPopulation(t, 8)
	defer pop.Extinction()

	low := addEntity(pop, 1)
	tieA := addEntity(pop, 5)
	high := addEntity(pop, 9)
	tieB := addEntity(pop, 5)
	pop.ScoreAndSort()

	assert.Same(t, high, pop.EntityByRank(0))
	assert.Same(t, tieA, pop.EntityByRank(1), "ties keep insertion order")
	assert.Same(t, tieB, pop.EntityByRank(2))
	assert.Same(t, low, pop.EntityByRank(3))
}

func TestUnevaluatedEntityRanksLast(t *testing.T) {
	pop := newTestPopulation(t, 8)
	defer pop.Extinction()

	scored := addEntity(pop, 1)
	pop.Evaluate(scored)
	fresh := addEntity(pop, 200) // never evaluated
	pop.Sort()

	assert.Same(t, scored, pop.EntityByRank(0))
	assert.Same(t, fresh, pop.EntityByRank(1))
}

func TestDereferenceByRankCompacts(t *testing.T) {
	pop := newTestPopulation(t, 8)
	defer pop.Extinction()

	for i := 0; i < 5; i++ {
		addEntity(pop, byte(10*(5-i))) // descending scores in rank order
	}
	pop.ScoreAndSort()
	first := pop.EntityByRank(0)
	third := pop.EntityByRank(3)
	fourth := pop.EntityByRank(4)

	pop.DereferenceByRank(2)

	assert.Equal(t, 4, pop.Size())
	assert.Same(t, first, pop.EntityByRank(0))
	assert.Same(t, third, pop.EntityByRank(2), "later ranks shift up, order preserved")
	assert.Same(t, fourth, pop.EntityByRank(3))
}

func TestDereferenceReleasesIdentitySlot(t *testing.T) {
	pop := newTestPopulation(t, 2)
	defer pop.Extinction()

	e := addEntity(pop, 1)
	id := pop.EntityID(e)
	require.GreaterOrEqual(t, id, 0)

	pop.Dereference(e)
	assert.Equal(t, 0, pop.Size())
	assert.Nil(t, pop.EntityByID(id))
}

func TestDereferenceForeignEntityPanics(t *testing.T) {
	pop := newTestPopulation(t, 2)
	defer pop.Extinction()
	stranger := &Entity{}
	assert.Panics(t, func() { pop.Dereference(stranger) })
}

func TestRankIDTranslation(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	addEntity(pop, 3)
	addEntity(pop, 1)
	pop.ScoreAndSort()

	for rank := 0; rank < pop.Size(); rank++ {
		id := pop.IDFromRank(rank)
		require.GreaterOrEqual(t, id, 0)
		assert.Equal(t, rank, pop.RankFromID(id))
	}
	assert.Equal(t, -1, pop.IDFromRank(99))
}

func TestCopyEntityIsDeep(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	src := addEntity(pop, 7)
	pop.Evaluate(src)
	dst := pop.GetFreeEntity()
	pop.CopyEntity(dst, src)

	assert.Equal(t, src.Fitness, dst.Fitness)
	assert.Equal(t, src.Chromosomes[0].([]byte), dst.Chromosomes[0].([]byte))

	dst.Chromosomes[0].([]byte)[0] = 99
	assert.Equal(t, byte(7), src.Chromosomes[0].([]byte)[0], "copies must not alias")
}

func TestCopyIntoDirtyEntityPanics(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	src := addEntity(pop, 1)
	dst := addEntity(pop, 2)
	dst.Data = []interface{}{"occupied"}
	assert.Panics(t, func() { pop.CopyAllChromosomes(dst, src) })
}

func TestCopyDataRequiresIncrementor(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	src := addEntity(pop, 1)
	src.Data = []interface{}{"phenome"}
	dst := pop.GetFreeEntity()
	assert.Panics(t, func() { pop.CopyData(dst, src, 0) })

	shared := 0
	pop.DataRefIncrementor = func(interface{}) { shared++ }
	dst2 := pop.GetFreeEntity()
	pop.CopyData(dst2, src, 0)
	assert.Equal(t, 1, shared)
	assert.Equal(t, "phenome", dst2.Data[0])
	src.Data = nil
}

func TestCloneEntityLeavesParentUntouched(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	parent := addEntity(pop, 5)
	pop.Evaluate(parent)
	before := parent.Fitness

	dolly := pop.CloneEntity(parent)
	assert.Equal(t, before, dolly.Fitness)
	assert.Equal(t, before, parent.Fitness)
	assert.Equal(t, 2, pop.Size())
}

func TestGenocide(t *testing.T) {
	pop := newTestPopulation(t, 8)
	defer pop.Extinction()

	for i := 0; i < 6; i++ {
		addEntity(pop, byte(i+1))
	}
	pop.ScoreAndSort()
	best := pop.EntityByRank(0)

	pop.Genocide(2)
	assert.Equal(t, 2, pop.Size())
	assert.Same(t, best, pop.EntityByRank(0), "cull removes from the bottom")

	pop.Genocide(0)
	assert.Equal(t, 0, pop.Size())
}

func TestCloneCopiesEntities(t *testing.T) {
	pop := newTestPopulation(t, 4)
	addEntity(pop, 3)
	addEntity(pop, 8)
	pop.ScoreAndSort()

	clone := pop.Clone()
	defer clone.Extinction()
	defer pop.Extinction()

	assert.NotEqual(t, pop.ID(), clone.ID())
	assert.Equal(t, pop.Size(), clone.Size())
	for rank := 0; rank < pop.Size(); rank++ {
		assert.Equal(t, pop.EntityByRank(rank).Fitness, clone.EntityByRank(rank).Fitness)
		assert.NotSame(t, pop.EntityByRank(rank), clone.EntityByRank(rank))
	}
}

func TestBlankResetsFitnessAndData(t *testing.T) {
	pop := newTestPopulation(t, 4)
	defer pop.Extinction()

	destroyed := 0
	pop.DataDestructor = func(interface{}) { destroyed++ }

	e := addEntity(pop, 9)
	pop.Evaluate(e)
	e.Data = []interface{}{"phenome"}

	pop.Blank(e)
	assert.Equal(t, MinFitness, e.Fitness)
	assert.Nil(t, e.Data)
	assert.Equal(t, 1, destroyed)
}

func TestExtinctionRemovesFromRegistry(t *testing.T) {
	pop := newTestPopulation(t, 4)
	addEntity(pop, 1)
	id := pop.ID()

	pop.Extinction()
	assert.Nil(t, DefaultRegistry.Get(id))
	assert.Panics(t, func() { pop.Extinction() }, "double extinction is a contract violation")
}
