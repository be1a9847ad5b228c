// Package main provides the Gannet ML Framework CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

func main() {
	root := &cobra.Command{
		Use:           "gannet",
		Short:         "Gannet - hinge-loss GAN training for Go",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTrainCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Gannet ML Framework %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
