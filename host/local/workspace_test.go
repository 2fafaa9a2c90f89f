package local_test

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/specs-feup/clava-benchmarks/host"
	"github.com/specs-feup/clava-benchmarks/host/local"
)

var _ = Describe("Workspace", func() {
	var (
		root string
		ws   *local.Workspace
	)

	file := func(rel string) host.File {
		return host.File{Name: filepath.Base(rel), Path: filepath.Join(root, rel)}
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		writeTree(root, map[string]string{
			"atax/atax.c": `#include "atax.h"
static double *alloc(int n) { return 0; }
void kernel_atax(int m, int n) { }
int main(void) { kernel_atax(1, 2); return 0; }
`,
			"atax/atax.h": "void kernel_atax(int m, int n);\n",
			"flow/flow.cpp": `namespace flow {
int solve(int x) { return x; }
}
extern "C" int entry() { return flow::solve(1); }
`,
			"bad/bad.c": "int main( { return 0 }\n",
		})
		ws = local.NewWorkspace(context.Background())
	})

	It("should parse C units and list their functions", func() {
		Expect(ws.AddFile(file("atax/atax.c"))).To(Succeed())
		Expect(ws.AddFile(file("atax/atax.h"))).To(Succeed())
		Expect(ws.Rebuild()).To(Succeed())

		Expect(ws.Functions()).To(Equal([]string{"alloc", "kernel_atax", "main"}))
		Expect(ws.Language()).To(Equal(local.LangC))
		Expect(ws.Calls()).To(Equal([]string{"kernel_atax"}))
	})

	It("should parse C++ units inside namespaces", func() {
		Expect(ws.AddFile(file("flow/flow.cpp"))).To(Succeed())
		Expect(ws.Rebuild()).To(Succeed())

		Expect(ws.Language()).To(Equal(local.LangCXX))
		Expect(ws.Functions()).To(ConsistOf("solve", "entry"))
		Expect(ws.Calls()).To(Equal([]string{"flow::solve"}))
	})

	It("should restore units on pop", func() {
		Expect(ws.AddFile(file("atax/atax.c"))).To(Succeed())

		Expect(ws.PushAST()).To(Succeed())
		Expect(ws.RemoveChildren()).To(Succeed())
		Expect(ws.AddFile(file("flow/flow.cpp"))).To(Succeed())
		Expect(ws.Units()).To(HaveLen(1))
		Expect(ws.Units()[0].File.Name).To(Equal("flow.cpp"))

		Expect(ws.PopAST()).To(Succeed())
		Expect(ws.Units()).To(HaveLen(1))
		Expect(ws.Units()[0].File.Name).To(Equal("atax.c"))
		Expect(ws.Depth()).To(BeZero())
	})

	It("should fail to pop an empty stack", func() {
		Expect(errors.Is(ws.PopAST(), host.ErrEmptyStack)).To(BeTrue())
	})

	It("should tolerate syntax errors unless strict", func() {
		Expect(ws.AddFile(file("bad/bad.c"))).To(Succeed())
		Expect(ws.Rebuild()).To(Succeed())
		Expect(ws.Units()[0].HasErrors).To(BeTrue())

		strict := local.NewWorkspace(context.Background(), local.WithStrictParsing())
		Expect(strict.AddFile(file("bad/bad.c"))).To(Succeed())
		Expect(strict.Rebuild()).To(MatchError(ContainSubstring("bad.c")))
	})

	It("should fail to add a missing file", func() {
		Expect(ws.AddFile(file("atax/missing.c"))).NotTo(Succeed())
	})
})
