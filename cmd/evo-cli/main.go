package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evo-go/cmd/evo-cli/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "evo-cli",
	Short: "Evo-Go CLI for exploring operators and running evolutionary searches",
	Long: `A command-line interface for the Evo-Go framework that makes it easy to
try out evolutionary searches without writing boilerplate code.

The CLI provides:
- A catalogue of every built-in operator
- A text-matching sample problem driven by a YAML run configuration
- Inspection of population snapshot files`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
