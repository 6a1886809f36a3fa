package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/voxtask/voxtask/cmd/cli/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "voxtask",
		Short: "Command-line interface for VoxTask",
		Long:  "CLI tool for running natural-language commands against a VoxTask database",
	}

	rootCmd.AddCommand(commands.NewSayCmd())
	rootCmd.AddCommand(commands.NewTasksCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
