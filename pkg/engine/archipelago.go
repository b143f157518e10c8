package engine

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
	"github.com/XiaoConstantine/evo-go/pkg/migration"
)

// island owns one population and its two ring edges.
type island struct {
	pop *core.Population
	out *migration.ChannelConn
	in  *migration.ChannelConn
}

// migrationMask rolls the migration dice per rank. Returns the mask and the
// number of marked ranks.
func migrationMask(pop *core.Population) ([]bool, int) {
	rng := pop.RNG()
	mask := make([]bool, pop.Size())
	count := 0
	for rank := range mask {
		if rng.Float64() <= pop.MigrationRatio {
			mask[rank] = true
			count++
		}
	}
	return mask, count
}

// exchange sends this island's emigrants downstream and appends the
// upstream island's emigrants. Emigration is copying, not destructive; the
// next cull decides who stays.
func (isl *island) exchange(ctx context.Context) error {
	mask, count := migrationMask(isl.pop)
	if err := migration.SendByMask(ctx, isl.pop, isl.out, count, mask); err != nil {
		return err
	}
	_, err := migration.AppendReceive(ctx, isl.pop, isl.in)
	return err
}

// run evolves one island until the generation ceiling, a hook stop, context
// cancellation, or ring shutdown. Returns generations completed.
func (isl *island) run(ctx context.Context, maxGenerations int, stop *atomic.Bool) int {
	pop := isl.pop
	elitism := effectiveElitism(pop)
	logger := logging.GetLogger()
	defer isl.out.Close()

	scoreAll(pop)
	pop.Sort()

	if pop.GenerationHook != nil && !pop.GenerationHook(0, pop) {
		stop.Store(true)
		return 0
	}

	for generation := 1; generation <= maxGenerations; generation++ {
		if stop.Load() {
			return generation - 1
		}
		if err := errors.CheckContext(ctx, "archipelago evolution"); err != nil {
			stop.Store(true)
			return generation - 1
		}

		step(pop, elitism)
		pop.SetGeneration(generation)

		// The exchange doubles as the ring's generation barrier: the
		// receive blocks until the upstream island finishes this
		// generation. A closed edge means a neighbor stopped.
		if err := isl.exchange(ctx); err != nil {
			logger.Debug(ctx, "island %d leaving ring at generation %d: %v",
				pop.Island(), generation, err)
			stop.Store(true)
			return generation
		}

		if pop.GenerationHook != nil && !pop.GenerationHook(generation, pop) {
			stop.Store(true)
			return generation
		}
	}
	return maxGenerations
}

// EvolveArchipelago evolves several populations in parallel, one worker per
// island, connected in a ring. After each generation every island emigrates
// a fitness-independent random sample of its entities (per its migration
// ratio) to the next island as serialized snapshots. A stop on any island
// winds down the whole ring. Returns the minimum number of generations any
// island completed.
func EvolveArchipelago(ctx context.Context, pops []*core.Population, maxGenerations int) int {
	if len(pops) == 0 {
		die("archipelago requires at least one population")
	}
	if len(pops) == 1 {
		return Evolve(ctx, pops[0], maxGenerations)
	}
	for _, pop := range pops {
		validate(pop)
	}

	islands := make([]*island, len(pops))
	for i, pop := range pops {
		pop.SetIsland(i)
		islands[i] = &island{pop: pop}
	}

	// One directed pipe per ring edge. An island may run one generation
	// ahead of its downstream neighbor before the stop flag reaches it,
	// so each edge buffers two full migration batches.
	for i := range islands {
		next := (i + 1) % len(islands)
		batch := 2 * (2 + 2*pops[i].StableSize())
		out, in := migration.NewPipe(batch)
		islands[i].out = out
		islands[next].in = in
	}

	var stop atomic.Bool
	completed := make([]int, len(islands))

	p := pool.New().WithMaxGoroutines(len(islands))
	for i, isl := range islands {
		i, isl := i, isl
		p.Go(func() {
			completed[i] = isl.run(ctx, maxGenerations, &stop)
		})
	}
	p.Wait()

	minDone := completed[0]
	for _, done := range completed[1:] {
		if done < minDone {
			minDone = done
		}
	}
	return minDone
}
