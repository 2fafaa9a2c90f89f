package local_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/specs-feup/clava-benchmarks/catalog"
	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/host/local"
	"github.com/specs-feup/clava-benchmarks/lifecycle"
)

var _ = Describe("Builder", func() {
	It("should assemble the compiler command", func() {
		root := GinkgoT().TempDir()
		writeTree(root, map[string]string{
			"nas/NAS_EP.c": "int main(void) { return 0; }\n",
			"nas/npb.h":    "",
		})

		ws := local.NewWorkspace(context.Background())
		Expect(ws.AddFile(host.File{Name: "NAS_EP.c", Path: filepath.Join(root, "nas/NAS_EP.c")})).To(Succeed())
		Expect(ws.AddFile(host.File{Name: "npb.h", Path: filepath.Join(root, "nas/npb.h")})).To(Succeed())

		cfg, err := local.NewConfig("c99", "-O2 -DCLASS_W")
		Expect(err).NotTo(HaveOccurred())

		b := local.NewBuilder("NAS-EP-W", "/build")
		b.CC = "cc"
		b.AddLibs("m", "m")

		args, out := b.Command(ws, cfg)
		Expect(out).To(Equal(filepath.Join("/build", "NAS-EP-W")))
		Expect(args).To(Equal([]string{
			"cc", "-std=c99", "-O2", "-DCLASS_W",
			"-I" + filepath.Join(root, "nas"),
			filepath.Join(root, "nas/NAS_EP.c"),
			"-o", out,
			"-lm",
		}))
	})

	It("should link flag libraries after the sources", func() {
		root := GinkgoT().TempDir()
		writeTree(root, map[string]string{"src/main.c": "int main(void) { return 0; }\n"})

		ws := local.NewWorkspace(context.Background())
		Expect(ws.AddFile(host.File{Name: "main.c", Path: filepath.Join(root, "src/main.c")})).To(Succeed())

		cfg, err := local.NewConfig("c11", "-O3 -lboost_regex -DX -lm")
		Expect(err).NotTo(HaveOccurred())

		b := local.NewBuilder("t", "/build")
		b.CC = "cc"
		b.AddLibs("m")

		args, out := b.Command(ws, cfg)
		Expect(args).To(Equal([]string{
			"cc", "-std=c11", "-O3", "-DX",
			"-I" + filepath.Join(root, "src"),
			filepath.Join(root, "src/main.c"),
			"-o", out,
			"-lboost_regex", "-lm",
			"-lm",
		}))
	})

	It("should pick the C++ compiler for C++ standards", func() {
		ws := local.NewWorkspace(context.Background())
		cfg, err := local.NewConfig("c++11", "")
		Expect(err).NotTo(HaveOccurred())

		b := local.NewBuilder("x", "/build")
		b.CXX = "g++"
		args, _ := b.Command(ws, cfg)
		Expect(args[0]).To(Equal("g++"))
	})
})

var _ = Describe("ProcessExecutor", func() {
	BeforeEach(func() {
		if _, err := exec.LookPath("sh"); err != nil {
			Skip("sh not found on PATH")
		}
	})

	It("should record the exit code and output", func() {
		sh, _ := exec.LookPath("sh")
		e := local.NewProcessExecutor(context.Background(), GinkgoT().TempDir(), time.Minute)

		Expect(e.ExitCode()).To(Equal(-1))
		Expect(e.Execute(sh, "-c", "echo hello; exit 3")).To(Succeed())
		Expect(e.ExitCode()).To(Equal(3))
		Expect(e.Output()).To(Equal("hello\n"))
	})

	It("should run in its directory", func() {
		sh, _ := exec.LookPath("sh")
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "marker"), nil, 0644)).To(Succeed())

		e := local.NewProcessExecutor(context.Background(), dir, 0)
		Expect(e.Execute(sh, "-c", "test -f marker")).To(Succeed())
		Expect(e.ExitCode()).To(BeZero())
	})

	It("should fail when the timeout expires", func() {
		sh, _ := exec.LookPath("sh")
		e := local.NewProcessExecutor(context.Background(), GinkgoT().TempDir(), 50*time.Millisecond)
		Expect(e.Execute(sh, "-c", "exec sleep 5")).To(MatchError(ContainSubstring("did not finish")))
	})

	It("should fail for a missing program", func() {
		e := local.NewProcessExecutor(context.Background(), GinkgoT().TempDir(), 0)
		Expect(e.Execute("/nonexistent/program")).NotTo(Succeed())
	})
})

var _ = Describe("Host", func() {
	var (
		h    *local.Host
		base string
	)

	BeforeEach(func() {
		requireCompiler()

		base = GinkgoT().TempDir()
		writeTree(filepath.Join(base, "res"), map[string]string{
			"sum/sum.c": `#include <stdio.h>
#include <math.h>
int main(int argc, char **argv) {
	FILE *f = fopen(argv[1], "r");
	int x = 0;
	if (!f || fscanf(f, "%d", &x) != 1) return 2;
	printf("%d %d\n", x * CLASS_FACTOR, (int) sqrt(16.0));
	return 0;
}
`,
			"sum/data/input.txt": "21\n",
		})

		var err error
		h, err = local.New(context.Background(), local.Options{
			ResourcesDir: filepath.Join(base, "res"),
			WorkDir:      filepath.Join(base, "work"),
			BuildDir:     filepath.Join(base, "build"),
			Standard:     "c89",
			Flags:        "-O0",
			Timeout:      time.Minute,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should build and run an instance end to end", func() {
		recipe := &lifecycle.Recipe{
			Suite: "Local",
			Flags: func(sel catalog.Selection) string { return "-DCLASS_FACTOR=2" },
			Libs:  []string{"m"},
			Sources: lifecycle.ScanFolder{
				Extensions: []string{".c", ".h"},
			},
			Invoke: func(sel catalog.Selection, _ lifecycle.Env) (lifecycle.Invocation, error) {
				return lifecycle.Invocation{
					Args: []string{"input.txt"},
					Data: []lifecycle.Stage{{Source: sel.Benchmark + "/data/input.txt"}},
				}, nil
			},
		}

		inst := lifecycle.NewInstance(h.Env(), recipe, catalog.Selection{Benchmark: "sum", Size: "N"}, "c99")

		executor, err := lifecycle.Run(inst, h.Build)
		Expect(err).NotTo(HaveOccurred())
		Expect(executor.ExitCode()).To(BeZero())
		Expect(executor.Output()).To(Equal("42 4\n"))

		Expect(h.Config.Standard()).To(Equal("c89"))
		Expect(h.Config.Flags()).To(Equal("-O0"))
		Expect(h.Workspace.Depth()).To(BeZero())
		Expect(h.WorkDir.Exists("input.txt")).To(BeFalse())

		exe := inst.Executable().(*local.Executable)
		Expect(exe.Binary).NotTo(BeNil())
	})

	It("should report compiler errors as a build failure", func() {
		writeTree(filepath.Join(base, "res"), map[string]string{
			"broken/broken.c": "int main(void) { return undefined_symbol; }\n",
		})

		recipe := &lifecycle.Recipe{
			Suite:   "Local",
			Sources: lifecycle.ScanFolder{Extensions: []string{".c"}},
		}
		inst := lifecycle.NewInstance(h.Env(), recipe, catalog.Selection{Benchmark: "broken", Size: "N"}, "")

		_, err := lifecycle.Run(inst, h.Build)

		var buildErr *local.BuildError
		Expect(err).To(BeAssignableToTypeOf(&lifecycle.PhaseError{}))
		Expect(errors.As(err, &buildErr)).To(BeTrue())
		Expect(buildErr.Output).To(ContainSubstring("undefined_symbol"))
		Expect(h.Config.Flags()).To(Equal("-O0"))
	})
})
