package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// Selectors assume the population has been scored and sorted, so rank 0 is
// the fittest entity. They never return entities from an empty population;
// the engine guarantees at least one survivor before breeding.

// SelectOneRandom picks one parent uniformly at random.
type SelectOneRandom struct{}

func (SelectOneRandom) Name() string { return "select_one_random" }

func (SelectOneRandom) SelectOne(pop *core.Population) *core.Entity {
	return pop.EntityByRank(pop.RNG().Intn(pop.Size()))
}

// SelectTwoRandom picks two parents uniformly at random, distinct whenever
// the population holds more than one entity.
type SelectTwoRandom struct{}

func (SelectTwoRandom) Name() string { return "select_two_random" }

func (SelectTwoRandom) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	rng := pop.RNG()
	i := rng.Intn(pop.Size())
	j := i
	if pop.Size() > 1 {
		for j == i {
			j = rng.Intn(pop.Size())
		}
	}
	return pop.EntityByRank(i), pop.EntityByRank(j)
}

// SelectOneEvery walks the ranked population in order, wrapping at the end.
// Deterministic and exhaustive; useful for enumeration-style scoring.
type SelectOneEvery struct {
	cursor int
}

func (*SelectOneEvery) Name() string { return "select_one_every" }

func (s *SelectOneEvery) SelectOne(pop *core.Population) *core.Entity {
	if s.cursor >= pop.Size() {
		s.cursor = 0
	}
	e := pop.EntityByRank(s.cursor)
	s.cursor++
	return e
}

// SelectTwoEvery walks every ordered pair of ranked entities.
type SelectTwoEvery struct {
	first  int
	second int
}

func (*SelectTwoEvery) Name() string { return "select_two_every" }

func (s *SelectTwoEvery) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	if s.first >= pop.Size() {
		s.first = 0
	}
	if s.second >= pop.Size() {
		s.second = 0
	}
	mother := pop.EntityByRank(s.first)
	father := pop.EntityByRank(s.second)
	s.second++
	if s.second >= pop.Size() {
		s.second = 0
		s.first++
	}
	return mother, father
}

// SelectOneBestOf2 tournament: draw two entities at random, keep the fitter.
type SelectOneBestOf2 struct{}

func (SelectOneBestOf2) Name() string { return "select_one_bestof2" }

func (SelectOneBestOf2) SelectOne(pop *core.Population) *core.Entity {
	rng := pop.RNG()
	a := pop.EntityByRank(rng.Intn(pop.Size()))
	b := pop.EntityByRank(rng.Intn(pop.Size()))
	if b.Fitness > a.Fitness {
		return b
	}
	return a
}

// SelectTwoBestOf2 runs two independent best-of-two tournaments.
type SelectTwoBestOf2 struct{}

func (SelectTwoBestOf2) Name() string { return "select_two_bestof2" }

func (SelectTwoBestOf2) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	one := SelectOneBestOf2{}
	return one.SelectOne(pop), one.SelectOne(pop)
}

// SelectOneRandomRank draws two random ranks and keeps the better one,
// biasing selection toward the top of the table without touching fitness
// values directly.
type SelectOneRandomRank struct{}

func (SelectOneRandomRank) Name() string { return "select_one_randomrank" }

func (SelectOneRandomRank) SelectOne(pop *core.Population) *core.Entity {
	rng := pop.RNG()
	r := rng.Intn(pop.Size())
	if r2 := rng.Intn(pop.Size()); r2 < r {
		r = r2
	}
	return pop.EntityByRank(r)
}

// rouletteTotal sums the selection weight of every entity under the given
// rebase offset. Entities whose shifted fitness is not positive get zero
// weight.
func rouletteTotal(pop *core.Population, offset float64) float64 {
	total := 0.0
	for rank := 0; rank < pop.Size(); rank++ {
		if w := pop.EntityByRank(rank).Fitness + offset; w > 0 {
			total += w
		}
	}
	return total
}

func rouletteSpin(pop *core.Population, offset, point float64) *core.Entity {
	for rank := 0; rank < pop.Size(); rank++ {
		e := pop.EntityByRank(rank)
		if w := e.Fitness + offset; w > 0 {
			point -= w
			if point <= 0 {
				return e
			}
		}
	}
	// Rounding can leave a sliver past the last positive weight.
	return pop.EntityByRank(pop.Size() - 1)
}

// SelectOneRoulette is classic fitness-proportionate selection. It requires
// strictly positive fitness values; with no positive mass it degrades to a
// uniform random pick.
type SelectOneRoulette struct{}

func (SelectOneRoulette) Name() string { return "select_one_roulette" }

func (SelectOneRoulette) SelectOne(pop *core.Population) *core.Entity {
	total := rouletteTotal(pop, 0)
	if total <= 0 {
		return pop.EntityByRank(pop.RNG().Intn(pop.Size()))
	}
	return rouletteSpin(pop, 0, pop.RNG().Float64()*total)
}

// SelectTwoRoulette spins the wheel twice.
type SelectTwoRoulette struct{}

func (SelectTwoRoulette) Name() string { return "select_two_roulette" }

func (SelectTwoRoulette) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	one := SelectOneRoulette{}
	return one.SelectOne(pop), one.SelectOne(pop)
}

// rebaseOffset shifts all weights so the worst entity sits just above zero,
// letting roulette selection cope with negative or mixed-sign fitness.
func rebaseOffset(pop *core.Population) float64 {
	worst := pop.EntityByRank(pop.Size() - 1).Fitness
	best := pop.EntityByRank(0).Fitness
	span := best - worst
	if span <= 0 {
		span = 1
	}
	return -worst + span/100
}

// SelectOneRouletteRebased is roulette selection with the wheel rebased
// against the worst fitness in the population.
type SelectOneRouletteRebased struct{}

func (SelectOneRouletteRebased) Name() string { return "select_one_roulette_rebased" }

func (SelectOneRouletteRebased) SelectOne(pop *core.Population) *core.Entity {
	offset := rebaseOffset(pop)
	total := rouletteTotal(pop, offset)
	if total <= 0 {
		return pop.EntityByRank(pop.RNG().Intn(pop.Size()))
	}
	return rouletteSpin(pop, offset, pop.RNG().Float64()*total)
}

// SelectTwoRouletteRebased spins the rebased wheel twice.
type SelectTwoRouletteRebased struct{}

func (SelectTwoRouletteRebased) Name() string { return "select_two_roulette_rebased" }

func (SelectTwoRouletteRebased) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	one := SelectOneRouletteRebased{}
	return one.SelectOne(pop), one.SelectOne(pop)
}

// SelectOneSUS implements stochastic universal sampling: one random phase is
// drawn per generation, then successive picks advance a pointer by equal
// steps around the rebased wheel. Compared to repeated roulette spins this
// bounds the spread of each entity's offspring count.
type SelectOneSUS struct {
	generation int
	primed     bool
	pointer    float64
	step       float64
	offset     float64
	total      float64
}

func (*SelectOneSUS) Name() string { return "select_one_sus" }

func (s *SelectOneSUS) SelectOne(pop *core.Population) *core.Entity {
	if !s.primed || s.generation != pop.Generation() {
		s.generation = pop.Generation()
		s.primed = true
		s.offset = rebaseOffset(pop)
		s.total = rouletteTotal(pop, s.offset)
		s.step = s.total / float64(pop.Size())
		s.pointer = pop.RNG().Float64() * s.step
	}
	if s.total <= 0 {
		return pop.EntityByRank(pop.RNG().Intn(pop.Size()))
	}
	e := rouletteSpin(pop, s.offset, s.pointer)
	s.pointer += s.step
	if s.pointer > s.total {
		s.pointer -= s.total
	}
	return e
}

// SelectTwoSUS advances the sampling pointer twice.
type SelectTwoSUS struct {
	one SelectOneSUS
}

func (*SelectTwoSUS) Name() string { return "select_two_sus" }

func (s *SelectTwoSUS) SelectTwo(pop *core.Population) (*core.Entity, *core.Entity) {
	return s.one.SelectOne(pop), s.one.SelectOne(pop)
}
