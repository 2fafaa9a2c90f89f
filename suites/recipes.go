package suites

import (
	"path/filepath"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

var (
	cSources      = []string{".c", ".h"}
	mixedSources  = []string{".c", ".cpp", ".h"}
	mixedWithHPP  = []string{".c", ".cpp", ".h", ".hpp"}
	hiflipOutputs = []string{"img1.pgm", "out1.pgm", "out2.pgm", "out3.pgm", "out4.pgm", "out5.pgm"}
)

func axbenchRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   AxBench,
		Flags:   lifecycle.Fixed("-lboost_regex"),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: mixedWithHPP},
	}
}

// CHStone folders also hold data files; only C sources and headers are
// loaded.
func chstoneRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   CHStone,
		Flags:   lifecycle.Define(),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: cSources},
	}
}

func cortexRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   CortexSuite,
		Flags:   lifecycle.Fixed("-lm"),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: mixedSources},
	}
}

func hiflipvxRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite: HiFlipVX,
		Flags: lifecycle.Define(),
		Sources: lifecycle.FixedFiles(func(sel catalog.Selection) []string {
			return []string{sel.Benchmark + "/img_main.cpp"}
		}),
		LoadData: func(sel catalog.Selection) []lifecycle.Stage {
			return []lifecycle.Stage{{Source: sel.Benchmark + "/img1.pgm"}}
		},
		Invoke: func(_ catalog.Selection, env lifecycle.Env) (lifecycle.Invocation, error) {
			return lifecycle.Invocation{
				Args: []string{filepath.Join(env.WorkDir.Path(), "img1.pgm")},
			}, nil
		},
		Cleanup: func(catalog.Selection) lifecycle.Cleanup {
			return lifecycle.Cleanup{Files: hiflipOutputs}
		},
	}
}

func machsuiteRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   MachSuite,
		Flags:   lifecycle.Fixed("-O3"),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: mixedWithHPP},
		Cleanup: func(catalog.Selection) lifecycle.Cleanup {
			return lifecycle.Cleanup{Files: []string{"output.data"}}
		},
	}
}

func nasRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite: NAS,
		Flags: lifecycle.Define(),
		Libs:  []string{"m"},
		Sources: lifecycle.FixedFiles(func(sel catalog.Selection) []string {
			return []string{"NAS_" + sel.Benchmark + ".c"}
		}),
	}
}

// Rodinia has no standards table; instances keep the host standard.
func rodiniaRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:   Rodinia,
		Flags:   lifecycle.Fixed("-lm"),
		Libs:    []string{"m"},
		Sources: lifecycle.ScanFolder{Extensions: mixedSources},
	}
}
