package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// AdaptHillClimb performs one step of allele hill climbing: clone the
// entity, nudge a random allele up, keep it if fitness improved, otherwise
// try nudging it down, otherwise restore the allele and the original
// fitness. Works on char and integer chromosomes.
type AdaptHillClimb struct{}

func (AdaptHillClimb) Name() string { return "adapt_hill_climb" }

func (AdaptHillClimb) Adapt(pop *core.Population, e *core.Entity) *core.Entity {
	rng := pop.RNG()
	adult := pop.CloneEntity(e)
	chromosome := rng.Intn(pop.NumChromosomes())
	point := rng.Intn(pop.LenChromosomes())

	bump := func(delta int) {
		switch alleles := adult.Chromosomes[chromosome].(type) {
		case []byte:
			alleles[point] = byte(int(alleles[point]) + delta)
		case []int32:
			alleles[point] += int32(delta)
		default:
			die("hill climbing requires char or integer chromosomes")
		}
	}

	bump(+1)
	if pop.Evaluate(adult) > e.Fitness {
		return adult
	}
	bump(-2)
	if pop.Evaluate(adult) > e.Fitness {
		return adult
	}
	bump(+1)
	adult.Fitness = e.Fitness
	return adult
}
