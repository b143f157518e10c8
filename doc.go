// Package evo is a Go implementation of a genetic algorithm framework with
// pluggable operators, multiple evolutionary schemes and cross-process
// migration.
//
// Evo-Go provides a pooled population memory model, a library of built-in
// operators, and three search drivers. It focuses on making it easy to:
//   - Define a search over char, integer, boolean, double or bitstring genomes
//   - Plug in custom evaluation, seeding, selection, variation and adaptation
//   - Run Darwinian, Lamarckian or Baldwinian evolution
//   - Scale out to an archipelago of islands exchanging migrants
//   - Persist populations to snapshot files and per-generation statistics to SQLite
//
// Key Components:
//
//   - Core: the population memory model. Entities are pooled and addressed
//     through generation-checked handles, ranked by fitness, and reference
//     counted so phenome data shared between entities is destroyed exactly
//     once.
//
//   - Operators: built-in strategies, each with a stable registry id so
//     snapshot files can rebind them on restore:
//     * Codecs for the five chromosome representations
//     * Seeders, selectors (random, best-of-two, roulette, SUS), mutators
//     * Crossover operators (single point, double point, allele mixing)
//     * A hill-climbing adapter and a fitness-based steady-state replacer
//
//   - Engine: the generational loop, a steady-state variant driven by a
//     replacement strategy, and an archipelago that runs one goroutine per
//     island with ring migration between generations.
//
//   - Migration: the wire protocol for moving entities between populations
//     over any ordered, reliable message connection.
//
//   - Snapshot: versioned binary persistence for populations and single
//     entities.
//
//   - Config: YAML run configuration with validation.
//
//   - Archive: per-generation statistics in SQLite with Parquet export.
//
// Simple Example:
//
//	import (
//	    "context"
//
//	    "github.com/XiaoConstantine/evo-go/pkg/core"
//	    "github.com/XiaoConstantine/evo-go/pkg/engine"
//	    "github.com/XiaoConstantine/evo-go/pkg/operators"
//	)
//
//	func main() {
//	    pop := core.NewPopulation(100, 1, 16)
//	    defer pop.Extinction()
//
//	    pop.Codec = operators.CharCodec{}
//	    pop.Seeder = operators.SeedPrintableRandom{}
//	    pop.SelectOne = operators.SelectOneBestOf2{}
//	    pop.SelectTwo = operators.SelectTwoBestOf2{}
//	    pop.Mutator = operators.MutatePrintableDrift{}
//	    pop.Crossover = operators.CrossoverCharMixing{}
//	    pop.Evaluator = core.EvaluatorFunc(func(p *core.Population, e *core.Entity) bool {
//	        e.Fitness = score(e.Chromosomes[0].([]byte))
//	        return true
//	    })
//	    pop.SetParameters(core.SchemeDarwin, core.ElitismParentsSurvive, 0.8, 0.05, 0)
//
//	    pop.Seed()
//	    engine.Evolve(context.Background(), pop, 500)
//	}
//
// For more examples see the examples directory.
//
// Evo-Go is released under the MIT License.
package evo
