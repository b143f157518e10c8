package operators

import (
	"github.com/XiaoConstantine/evo-go/pkg/core"
)

// ReplaceByFitness is the standard steady-state policy: a candidate that
// beats the current worst entity displaces it, otherwise the candidate is
// discarded. The population size never changes.
type ReplaceByFitness struct{}

func (ReplaceByFitness) Name() string { return "replace_by_fitness" }

func (ReplaceByFitness) Replace(pop *core.Population, candidate *core.Entity) *core.Entity {
	var worst *core.Entity
	for rank := 0; rank < pop.Size(); rank++ {
		e := pop.EntityByRank(rank)
		if e == candidate {
			continue
		}
		if worst == nil || e.Fitness < worst.Fitness {
			worst = e
		}
	}
	if worst == nil || candidate.Fitness <= worst.Fitness {
		return candidate
	}
	return worst
}
