package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evo-go/pkg/archive"
	"github.com/XiaoConstantine/evo-go/pkg/config"
	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/engine"
	"github.com/XiaoConstantine/evo-go/pkg/operators"
	"github.com/XiaoConstantine/evo-go/pkg/snapshot"
)

// textMatchScore builds the sample fitness function: one point per exact
// character match plus a smooth gradient on near misses.
func textMatchScore(target string) core.EvaluatorFunc {
	return func(pop *core.Population, e *core.Entity) bool {
		genes := e.Chromosomes[0].([]byte)
		fitness := 0.0
		for i := range genes {
			if genes[i] == target[i] {
				fitness += 1.0
			}
			diff := float64(genes[i]) - float64(target[i])
			fitness += (127.0 - math.Abs(diff)) / 50.0
		}
		e.Fitness = fitness
		return true
	}
}

// bindTextMatch attaches the sample problem's callbacks to a population.
func bindTextMatch(pop *core.Population, target string) {
	pop.Codec = operators.CharCodec{}
	pop.Evaluator = textMatchScore(target)
	pop.Seeder = operators.SeedPrintableRandom{}
	pop.SelectOne = &operators.SelectOneSUS{}
	pop.SelectTwo = &operators.SelectTwoSUS{}
	pop.Mutator = operators.MutatePrintableDrift{}
	pop.Crossover = operators.CrossoverCharMixing{}
}

func decodeBest(pop *core.Population) string {
	return pop.Codec.ToString(pop, pop.EntityByRank(0))
}

func NewRunCommand() *cobra.Command {
	var (
		configPath   string
		target       string
		snapshotPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the text-matching sample problem",
		Long: `Evolve a population of character strings toward a target phrase.

The run is driven by a YAML configuration file (population size, ratios,
scheme, elitism, generations, islands, archive path). Without one, genesis
defaults sized for the sample problem are used. The run stops as soon as any
population contains an exact match.`,
		Example: `  # Evolve toward the default phrase
  evo-cli run

  # Custom target and a full run configuration
  evo-cli run --target "Hello, world!" --config run.yaml

  # Keep a snapshot of the final population
  evo-cli run --snapshot final.evo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg := config.DefaultRunConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			cfg.LenChromosomes = len(target)

			var store *archive.Store
			if cfg.ArchivePath != "" {
				s, err := archive.NewStore(cfg.ArchivePath)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			pops := make([]*core.Population, cfg.Islands)
			for i := range pops {
				pop := cfg.NewPopulation()
				if cfg.RandomSeed != 0 {
					pop.SeedRNG(cfg.RandomSeed + int64(i))
				}
				bindTextMatch(pop, target)
				pop.Seed()
				pop.GenerationHook = solvedHook(ctx, store, pop, target)
				pops[i] = pop
				defer pop.Extinction()
			}

			var completed int
			if cfg.Islands == 1 {
				completed = engine.Evolve(ctx, pops[0], cfg.MaxGenerations)
			} else {
				completed = engine.EvolveArchipelago(ctx, pops, cfg.MaxGenerations)
			}

			best := pops[0]
			for _, pop := range pops[1:] {
				if pop.EntityByRank(0).Fitness > best.EntityByRank(0).Fitness {
					best = pop
				}
			}

			bold := color.New(color.Bold)
			bold.Printf("Completed %d generations\n", completed)
			fmt.Printf("Best fitness %.2f\n", best.EntityByRank(0).Fitness)
			fmt.Printf("Best string  %q\n", decodeBest(best))

			if snapshotPath != "" {
				if err := snapshot.WritePopulation(ctx, best, snapshotPath); err != nil {
					return err
				}
				fmt.Printf("Snapshot written to %s\n", snapshotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML run configuration file")
	cmd.Flags().StringVarP(&target, "target", "t", "When we reflect on our past it is not unusual to dwell on its failures.", "target phrase to evolve toward")
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "write the final population snapshot to this file")
	return cmd
}

// solvedHook stops the run on an exact match and records generation
// statistics when an archive store is configured.
func solvedHook(ctx context.Context, store *archive.Store, pop *core.Population, target string) core.GenerationHook {
	var runID string
	if store != nil {
		id, err := store.BeginRun(ctx, pop)
		if err == nil {
			runID = id
		} else {
			fmt.Printf("archive disabled: %v\n", err)
		}
	}

	return func(generation int, p *core.Population) bool {
		if runID != "" {
			if err := store.RecordGeneration(ctx, runID, p); err != nil {
				fmt.Printf("archive write failed: %v\n", err)
			}
		}
		return decodeBest(p) != target
	}
}
