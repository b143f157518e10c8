package engine

import (
	"context"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

// candidateBatch produces this iteration's offspring: at most one crossover
// pair and one mutant, each gated by its ratio.
func candidateBatch(pop *core.Population) []*core.Entity {
	rng := pop.RNG()
	var candidates []*core.Entity

	if rng.Float64() <= pop.CrossoverRatio {
		mother, father := pop.SelectTwo.SelectTwo(pop)
		daughter := pop.GetFreeEntity()
		son := pop.GetFreeEntity()
		pop.Crossover.Crossover(pop, mother, father, daughter, son)
		candidates = append(candidates, daughter, son)
	}
	if rng.Float64() <= pop.MutationRatio {
		parent := pop.SelectOne.SelectOne(pop)
		child := pop.GetFreeEntity()
		pop.Mutator.Mutate(pop, parent, child)
		candidates = append(candidates, child)
	}
	return candidates
}

// EvolveSteadyState runs per-iteration variation: each iteration breeds a
// small candidate batch, scores it, and lets the replacement callback choose
// a victim for every candidate. Returning the candidate itself rejects it;
// the population size is held constant either way. Returns the number of
// iterations completed.
func EvolveSteadyState(ctx context.Context, pop *core.Population, maxIterations int) int {
	validate(pop)
	if pop.Replacer == nil {
		die("steady-state evolution requires a replacement callback")
	}
	logger := logging.GetLogger()

	scoreAll(pop)
	pop.Sort()

	if pop.IterationHook != nil && !pop.IterationHook(0, pop) {
		return 0
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		if err := errors.CheckContext(ctx, "steady-state evolution"); err != nil {
			logger.Warn(ctx, "population %d stopped at iteration %d: %v",
				pop.ID(), iteration, err)
			return iteration - 1
		}

		candidates := candidateBatch(pop)

		if pop.Adapter != nil && pop.Scheme != core.SchemeDarwin {
			handles := make([]core.Handle, len(candidates))
			for i, c := range candidates {
				handles[i] = pop.HandleByRank(pop.RankOf(c))
			}
			survivors := adaptByScheme(pop, handles)
			candidates = candidates[:0]
			for _, h := range survivors {
				if e := pop.EntityByHandle(h); e != nil {
					candidates = append(candidates, e)
				}
			}
		}

		// Score the whole batch before any replacement: an unevaluated
		// batchmate carries the minimum-fitness sentinel and would
		// otherwise be picked as the victim, then evaluated dead.
		scored := make([]core.Handle, 0, len(candidates))
		for _, c := range candidates {
			if !c.Evaluated() && !pop.Evaluator.Evaluate(pop, c) {
				pop.Dereference(c)
				continue
			}
			scored = append(scored, pop.HandleByRank(pop.RankOf(c)))
		}
		for _, h := range scored {
			c := pop.EntityByHandle(h)
			if c == nil {
				// Displaced by an earlier candidate's replacement.
				continue
			}
			if victim := pop.Replacer.Replace(pop, c); victim != nil {
				pop.Dereference(victim)
			}
		}

		pop.Sort()

		if pop.IterationHook != nil && !pop.IterationHook(iteration, pop) {
			return iteration
		}
	}
	return maxIterations
}
