// Package main provides a CLI tool to check which benchmarks of a suite have
// their sources in a resource folder.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specs-feup/clava-benchmarks/host/local"
	"github.com/specs-feup/clava-benchmarks/logging"
	"github.com/specs-feup/clava-benchmarks/suites"
)

var (
	suiteName    = flag.String("suite", suites.NAS, "Benchmark suite to check")
	resourcesDir = flag.String("resources", "", "Suite resource folder (default: <repo>/resources/<suite>)")
	version      = flag.String("version", "", "Polybench version")
)

func main() {
	flag.Parse()

	name, err := suites.Canonical(*suiteName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	dir := *resourcesDir
	if dir == "" {
		root, err := repoRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		dir = filepath.Join(root, "resources", strings.ToLower(name))
	}

	res, err := local.NewResources(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s resources not available: %v\n", name, err)
		fmt.Println("0")
		os.Exit(0)
	}

	suite, err := suites.Open(name, suites.Options{
		Resources: res,
		Version:   *version,
		Logger:    logging.New(logging.Config{Level: logging.LevelWarn}),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s catalog not available: %v\n", name, err)
		fmt.Println("0")
		os.Exit(0)
	}

	idx := suites.NewResourceIndex(suite, res)
	if err := idx.ValidateSetup(); err != nil {
		fmt.Fprintf(os.Stderr, "%s setup invalid: %v\n", name, err)
		fmt.Println("0")
		os.Exit(0)
	}

	var available, missing []suites.ResourceStatus
	for _, st := range idx.Statuses() {
		if st.Available() {
			available = append(available, st)
		} else {
			missing = append(missing, st)
		}
	}

	fmt.Printf("%d\n", len(available))

	if len(available) > 0 {
		fmt.Fprintf(os.Stderr, "\nAvailable benchmarks (%d):\n", len(available))
		for _, st := range available {
			fmt.Fprintf(os.Stderr, "  ✅ %s - %d source files\n", st.Benchmark, len(st.Files))
		}
	}

	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "\nMissing benchmarks (%d):\n", len(missing))
		for _, st := range missing {
			fmt.Fprintf(os.Stderr, "  ❌ %s - %v\n", st.Benchmark, st.Err)
		}
	}
}

// repoRoot walks up from the working directory to the folder with go.mod.
func repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting working directory: %w", err)
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find repository root (go.mod)")
		}
		dir = parent
	}
}
