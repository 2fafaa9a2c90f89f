package suites

import (
	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

func rosettaRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   Rosetta,
		Flags:   lifecycle.Define("-D SW"),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: mixedSources},
		Invoke:  rosettaInvocation,
		Cleanup: rosettaCleanup,
	}
}

func rosettaInvocation(sel catalog.Selection, _ lifecycle.Env) (lifecycle.Invocation, error) {
	switch sel.Benchmark {
	case "spam-filter":
		return lifecycle.Invocation{
			Args: []string{"-p", "data"},
			Data: []lifecycle.Stage{{Source: "spam-filter/data", Name: "data", Folder: true}},
		}, nil

	case "optical-flow":
		dataset := "datasets/current"
		if sel.Size == "sintel" {
			dataset = "datasets/sintel_alley"
		}
		return lifecycle.Invocation{
			Args: []string{"-p", dataset, "-o", "output_" + sel.Size + ".flo"},
			Data: []lifecycle.Stage{{Source: "optical-flow/" + dataset, Name: dataset, Folder: true}},
		}, nil
	}

	return lifecycle.Invocation{}, nil
}

func rosettaCleanup(sel catalog.Selection) lifecycle.Cleanup {
	switch sel.Benchmark {
	case "spam-filter":
		return lifecycle.Cleanup{Files: []string{"output.txt"}, Folders: []string{"data"}}
	case "optical-flow":
		return lifecycle.Cleanup{
			Files:   []string{"output_" + sel.Size + ".flo"},
			Folders: []string{"datasets"},
		}
	}
	return lifecycle.Cleanup{Files: []string{"outputs.txt"}}
}
