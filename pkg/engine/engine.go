// Package engine drives populations through the evolutionary step protocol:
// evaluate, rank, terminate-check, select, vary, adapt, insert, cull. It
// provides a generational loop, a steady-state loop and a multi-island
// archipelago built from the generational loop plus the migration protocol.
package engine

import (
	"context"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

func die(format string, args ...interface{}) {
	errors.Fatalf(errors.ContractViolation, format, args...)
}

// validate fails fast when a callback the configured ratios will exercise is
// missing. Catching this at entry beats dying mid-generation.
func validate(pop *core.Population) {
	if pop.Codec == nil {
		die("chromosome codec is not defined")
	}
	if pop.Evaluator == nil {
		die("evaluation callback not defined")
	}
	if pop.CrossoverRatio > 0 && (pop.SelectTwo == nil || pop.Crossover == nil) {
		die("crossover requires two-parent selection and crossover callbacks")
	}
	if pop.MutationRatio > 0 && (pop.SelectOne == nil || pop.Mutator == nil) {
		die("mutation requires one-parent selection and mutation callbacks")
	}
}

// effectiveElitism maps the unset policy to the default.
func effectiveElitism(pop *core.Population) core.Elitism {
	if pop.Elitism == core.ElitismUnknown {
		return core.ElitismParentsSurvive
	}
	return pop.Elitism
}

// scoreAll evaluates every entity that still carries the unevaluated
// sentinel. Entities the evaluator rejects are removed. Walks the rank
// array backwards so removal compaction never skips an entry.
func scoreAll(pop *core.Population) {
	for rank := pop.Size() - 1; rank >= 0; rank-- {
		e := pop.EntityByRank(rank)
		if e.Evaluated() {
			continue
		}
		if !pop.Evaluator.Evaluate(pop, e) {
			pop.DereferenceByRank(rank)
		}
	}
}

// snapshotHandles captures the current rank array as generation-checked
// handles. Entities removed later simply resolve to nil.
func snapshotHandles(pop *core.Population) []core.Handle {
	handles := make([]core.Handle, pop.Size())
	for rank := range handles {
		handles[rank] = pop.HandleByRank(rank)
	}
	return handles
}

// breed runs the variation phase: one crossover roll and one mutation roll
// per pre-existing entity. All parents are selected before any offspring is
// allocated, so selection only ever sees the pre-variation population.
// Offspring append to the rank array unevaluated.
func breed(pop *core.Population) {
	rng := pop.RNG()
	origSize := pop.Size()

	type pair struct{ mother, father *core.Entity }
	var pairs []pair
	for i := 0; i < origSize; i++ {
		if rng.Float64() <= pop.CrossoverRatio {
			mother, father := pop.SelectTwo.SelectTwo(pop)
			pairs = append(pairs, pair{mother, father})
		}
	}
	var parents []*core.Entity
	for i := 0; i < origSize; i++ {
		if rng.Float64() <= pop.MutationRatio {
			parents = append(parents, pop.SelectOne.SelectOne(pop))
		}
	}

	for _, p := range pairs {
		daughter := pop.GetFreeEntity()
		son := pop.GetFreeEntity()
		pop.Crossover.Crossover(pop, p.mother, p.father, daughter, son)
	}
	for _, parent := range parents {
		child := pop.GetFreeEntity()
		pop.Mutator.Mutate(pop, parent, child)
	}
}

// adaptByScheme applies the bound adaptation callback to the entities named
// by the handles. Lamarckian schemes keep the adapted genotype in place of
// the original; Baldwinian schemes keep only the adapted fitness. Returns
// the handles of the entities that survived the pass.
func adaptByScheme(pop *core.Population, handles []core.Handle) []core.Handle {
	lamarck := pop.Scheme == core.SchemeLamarckChildren || pop.Scheme == core.SchemeLamarckAll
	survivors := make([]core.Handle, 0, len(handles))

	for _, h := range handles {
		e := pop.EntityByHandle(h)
		if e == nil {
			continue
		}
		if !e.Evaluated() {
			pop.Evaluate(e)
		}
		adapted := pop.Adapter.Adapt(pop, e)
		if adapted == nil || adapted == e {
			survivors = append(survivors, h)
			continue
		}
		if !adapted.Evaluated() {
			pop.Evaluate(adapted)
		}
		if lamarck {
			survivors = append(survivors, pop.HandleByRank(pop.RankOf(adapted)))
			pop.Dereference(e)
		} else {
			e.Fitness = adapted.Fitness
			pop.Dereference(adapted)
			survivors = append(survivors, h)
		}
	}
	return survivors
}

// step runs one full generation: variation, adaptation, scoring, elitism
// and the cull back to stable size.
func step(pop *core.Population, elitism core.Elitism) {
	parents := snapshotHandles(pop)
	origSize := len(parents)

	breed(pop)

	if pop.Adapter != nil && pop.Scheme != core.SchemeDarwin {
		var targets []core.Handle
		switch pop.Scheme {
		case core.SchemeLamarckAll, core.SchemeBaldwinAll:
			targets = snapshotHandles(pop)
		default:
			targets = snapshotHandles(pop)[origSize:]
		}
		adaptByScheme(pop, targets)
	}

	scoreAll(pop)

	switch elitism {
	case core.ElitismParentsDie:
		for _, h := range parents {
			if e := pop.EntityByHandle(h); e != nil {
				pop.Dereference(e)
			}
		}
	case core.ElitismOneParentSurvives:
		if len(parents) > 0 {
			for _, h := range parents[1:] {
				if e := pop.EntityByHandle(h); e != nil {
					pop.Dereference(e)
				}
			}
		}
	case core.ElitismRescoreParents:
		for _, h := range parents {
			if e := pop.EntityByHandle(h); e != nil {
				pop.Evaluate(e)
			}
		}
	}

	if pop.Size() == 0 {
		die("population went extinct during variation")
	}

	pop.Sort()
	if pop.Size() > pop.StableSize() {
		pop.Genocide(pop.StableSize())
	}
}

// Evolve runs the generational protocol for up to maxGenerations, returning
// the number of generations completed. The run stops early when the
// generation hook returns false or the context is canceled.
func Evolve(ctx context.Context, pop *core.Population, maxGenerations int) int {
	validate(pop)
	elitism := effectiveElitism(pop)
	logger := logging.GetLogger()

	scoreAll(pop)
	pop.Sort()

	if pop.GenerationHook != nil && !pop.GenerationHook(0, pop) {
		return 0
	}

	for generation := 1; generation <= maxGenerations; generation++ {
		if err := errors.CheckContext(ctx, "evolution"); err != nil {
			logger.Warn(ctx, "population %d stopped at generation %d: %v",
				pop.ID(), generation, err)
			return generation - 1
		}

		step(pop, elitism)
		pop.SetGeneration(generation)

		logger.Debug(ctx, "population %d generation %d best fitness %g",
			pop.ID(), generation, pop.EntityByRank(0).Fitness)

		if pop.GenerationHook != nil && !pop.GenerationHook(generation, pop) {
			return generation
		}
	}
	return maxGenerations
}
