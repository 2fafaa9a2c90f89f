package suites

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

// tpacfRandomSets is the number of Randompnts.N files each tpacf input
// folder holds.
const tpacfRandomSets = 100

// parboilOutputs are the extensions of everything a Parboil run may leave in
// the work dir, including the tpacf data sets.
var parboilOutputs = func() []string {
	ext := []string{".bin", ".dat", ".mtx", ".of", ".pqr", ".txt", ".uks"}
	for i := 1; i <= tpacfRandomSets; i++ {
		ext = append(ext, "."+strconv.Itoa(i))
	}
	return ext
}()

// Parboil sizes are lower-cased before they reach instance names, flags and
// data files.
func parboilRecipe() *lifecycle.Recipe {
	return &lifecycle.Recipe{
		Suite:         Parboil,
		NormalizeSize: strings.ToLower,
		Flags:         lifecycle.Define(),
		Libs:          []string{"m"},
		Sources:       lifecycle.ScanFolder{Extensions: mixedSources},
		Invoke:        parboilInvocation,
		Cleanup: func(catalog.Selection) lifecycle.Cleanup {
			return lifecycle.Cleanup{Extensions: parboilOutputs}
		},
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func parboilInvocation(sel catalog.Selection, _ lifecycle.Env) (lifecycle.Invocation, error) {
	size := sel.Size
	data := sel.Benchmark + "/data/"

	var inv lifecycle.Invocation
	stage := func(names ...string) string {
		for _, n := range names {
			inv.Data = append(inv.Data, lifecycle.Stage{Source: data + n})
		}
		return strings.Join(names, ",")
	}

	switch sel.Benchmark {
	case "bfs":
		inv.Args = []string{"-i", stage(size + "_graph_input.dat")}
	case "cutcp":
		inv.Args = []string{"-i", stage(size + pick(size == "large", "_watbox.sl100.pqr", "_watbox.sl40.pqr"))}
	case "histo":
		in := stage("img_" + size + ".bin")
		inv.Args = []string{pick(size == "large", "10000", "200"), "4", "-i", in}
	case "lbm":
		in := stage(size + "_120_120_150_ldc.of")
		inv.Args = []string{pick(size == "long", "3000", "100"), "-i", in, "-o", "lbm_output.bin"}
	case "mri-gridding":
		inv.Args = []string{"32", "0", "-i", stage(size + ".uks")}
	case "mri-q":
		inv.Args = []string{"-i", stage(pick(size == "large", "large_64_64_64_dataset.bin", "small_32_32_32_dataset.bin"))}
	case "sad":
		inv.Args = []string{"-i", stage(
			pick(size == "large", "large_reference.bin", "default_reference.bin"),
			pick(size == "large", "large_frame.bin", "default_frame.bin"),
		)}
	case "sgemm":
		prefix := pick(size == "medium", "medium", "small")
		inv.Args = []string{"-i", stage(
			prefix+"_matrix1.txt",
			prefix+"_matrix2.txt",
			prefix+"_matrix2t.txt",
		)}
	case "spmv":
		var matrix string
		switch size {
		case "large":
			matrix = "large_Dubcova3.mtx.bin"
		case "medium":
			matrix = "medium_bcsstk18.mtx"
		default:
			matrix = "small_1138_bus.mtx"
		}
		inv.Args = []string{"-i", stage(matrix, size+"_vector.bin")}
	case "stencil":
		if size == "default" {
			in := stage("default_512x512x64x100.bin")
			inv.Args = []string{"-i", in, "512", "512", "64", "5", "5", "100"}
		} else {
			in := stage("small_128x128x32.bin")
			inv.Args = []string{"-i", in, "128", "128", "32", "5", "5", "100"}
		}
	case "tpacf":
		names := []string{size + "/Datapnts.1"}
		for i := 1; i <= tpacfRandomSets; i++ {
			names = append(names, size+"/Randompnts."+strconv.Itoa(i))
		}
		stage(names...)

		// Staged files land in the work dir under their base names.
		points := make([]string, len(names))
		for i, n := range names {
			points[i] = n[strings.LastIndex(n, "/")+1:]
		}

		var count string
		switch size {
		case "large":
			count = "10391"
		case "medium":
			count = "4096"
		default:
			count = "487"
		}
		inv.Args = []string{"100", count, "-i", strings.Join(points, ",")}
	default:
		return inv, errors.Errorf("no Parboil invocation for %q", sel.Benchmark)
	}

	return inv, nil
}
