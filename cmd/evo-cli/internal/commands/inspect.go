package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evo-go/pkg/snapshot"
)

func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print the contents of a population snapshot file",
		Long: `Load a population snapshot and print its parameters, bound operators and
best-ranked member. Custom callbacks cannot travel through snapshot files,
so their slots show as unbound.`,
		Example: `  # Inspect a snapshot written by "evo-cli run --snapshot"
  evo-cli inspect final.evo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pop, err := snapshot.ReadPopulation(ctx, args[0])
			if err != nil {
				return err
			}
			defer pop.Extinction()

			heading := color.New(color.FgCyan, color.Bold)
			heading.Println("Population")
			fmt.Printf("  size          %d (stable %d)\n", pop.Size(), pop.StableSize())
			fmt.Printf("  genome        %d chromosome(s) x %d\n", pop.NumChromosomes(), pop.LenChromosomes())
			fmt.Printf("  island        %d\n", pop.Island())
			fmt.Printf("  scheme        %s\n", pop.Scheme)
			fmt.Printf("  elitism       %s\n", pop.Elitism)
			fmt.Printf("  crossover     %.3f\n", pop.CrossoverRatio)
			fmt.Printf("  mutation      %.3f\n", pop.MutationRatio)
			fmt.Printf("  migration     %.3f\n", pop.MigrationRatio)

			heading.Println("Operators")
			printSlot("codec", pop.Codec)
			printSlot("seeder", pop.Seeder)
			printSlot("select one", pop.SelectOne)
			printSlot("select two", pop.SelectTwo)
			printSlot("mutator", pop.Mutator)
			printSlot("crossover", pop.Crossover)
			printSlot("evaluator", pop.Evaluator)
			printSlot("adapter", pop.Adapter)
			printSlot("replacer", pop.Replacer)

			if pop.Size() > 0 {
				best := pop.EntityByRank(0)
				heading.Println("Best member")
				fmt.Printf("  fitness       %g\n", best.Fitness)
				if pop.Codec != nil {
					fmt.Printf("  genome        %q\n", pop.Codec.ToString(pop, best))
				}
			}
			return nil
		},
	}
}

// printSlot handles the nil-interface cases for each operator slot.
func printSlot(label string, s interface{ Name() string }) {
	name := "(unbound)"
	if s != nil && s.Name() != "" {
		name = s.Name()
	}
	fmt.Printf("  %-13s %s\n", label, name)
}
