// Package main provides the entry point for clava-benchmarks.
// It loads the benchmark suites used to evaluate source-to-source compiler
// passes and runs them on the local machine.
//
// For the full CLI, use: go run ./cmd/benchsets
package main

import (
	"fmt"
	"os"

	"github.com/specs-feup/clava-benchmarks/suites"
)

func main() {
	fmt.Println("clava-benchmarks - C/C++ benchmark suites")
	fmt.Println("")
	fmt.Println("Suites:")
	for _, name := range suites.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/benchsets' to list, print and run benchmark sets.")
	fmt.Println("Run 'go run ./cmd/resource-check -suite <name>' to check a resource folder.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/benchsets' instead.")
	}
}
