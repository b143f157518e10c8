package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evo-go/pkg/operators"
)

// operatorGroups maps name prefixes to display headings, in catalogue order.
var operatorGroups = []struct {
	prefix  string
	heading string
}{
	{"chromosome_", "Codecs"},
	{"seed_", "Seeders"},
	{"select_", "Selectors"},
	{"crossover_", "Crossover operators"},
	{"mutate_", "Mutators"},
	{"replace_", "Replacers"},
	{"adapt_", "Adapters"},
}

// builtinCatalogue walks the registry ids and buckets every built-in name
// under its group heading.
func builtinCatalogue() map[string][]string {
	catalogue := make(map[string][]string)
	for id := int32(1); ; id++ {
		s, ok := operators.Instantiate(id)
		if !ok {
			break
		}
		name := s.Name()
		for _, g := range operatorGroups {
			if strings.HasPrefix(name, g.prefix) {
				catalogue[g.heading] = append(catalogue[g.heading], name)
				break
			}
		}
	}
	for _, names := range catalogue {
		sort.Strings(names)
	}
	return catalogue
}

func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all built-in operators",
		Long: `Display every built-in operator grouped by role: codecs, seeders,
selectors, crossover operators, mutators, replacers and adapters.

Any of these names can be bound to a population, and populations restored
from snapshot files rebind them automatically.`,
		Example: `  # List all operators
  evo-cli list

  # Pipe to grep for filtering
  evo-cli list | grep bitstring`,
		Run: func(cmd *cobra.Command, args []string) {
			catalogue := builtinCatalogue()
			heading := color.New(color.FgCyan, color.Bold)
			for _, g := range operatorGroups {
				names := catalogue[g.heading]
				if len(names) == 0 {
					continue
				}
				heading.Printf("%s (%d)\n", g.heading, len(names))
				for _, name := range names {
					fmt.Printf("  %s\n", name)
				}
				fmt.Println()
			}
		},
	}
}
