package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/specs-feup/clava-benchmarks/catalog"
)

const nasDocument = `
suite: NAS
names: [BT, CG, EP, FT, IS, LU, MG, SP]
sizes: [S, W, A, B, C, D, E]
default_standard: c99
default_sizes: [W]
support:
  mode: deny
  deny:
    CG: [D, E]
    IS: [E]
`

var _ = Describe("Catalog documents", func() {
	It("should build a catalog from YAML", func() {
		c, err := catalog.Parse([]byte(nasDocument), nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Suite()).To(Equal("NAS"))
		Expect(c.DefaultSizes()).To(Equal([]string{"W"}))
		Expect(c.StandardFor("BT")).To(Equal("c99"))

		ok, err := c.IsSupported("CG", "D")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		ok, err = c.IsSupported("IS", "D")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("should accept JSON", func() {
		c, err := catalog.Parse([]byte(`{"suite":"J","names":["x"],"sizes":["N"],"support":{"mode":"size","sizes":["N"]}}`), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Names()).To(Equal([]string{"x"}))
	})

	DescribeTable("should reject invalid documents",
		func(doc string) {
			_, err := catalog.Parse([]byte(doc), nil)
			Expect(err).To(HaveOccurred())
		},
		Entry("missing suite", "names: [a]\nsizes: [N]\n"),
		Entry("no names", "suite: X\nnames: []\nsizes: [N]\n"),
		Entry("duplicate sizes", "suite: X\nnames: [a]\nsizes: [N, N]\n"),
		Entry("unknown mode", "suite: X\nnames: [a]\nsizes: [N]\nsupport: {mode: maybe}\n"),
		Entry("matrix without table", "suite: X\nnames: [a]\nsizes: [N]\nsupport: {mode: matrix}\n"),
		Entry("matrix with unknown benchmark",
			"suite: X\nnames: [a]\nsizes: [N]\nsupport: {mode: matrix, allow: {b: [N]}}\n"),
		Entry("standards for unknown benchmark",
			"suite: X\nnames: [a]\nsizes: [N]\nstandards: {b: c99}\n"),
		Entry("unknown field", "suite: X\nnames: [a]\nsizes: [N]\nflavour: hot\n"),
	)

	It("should round trip through Document", func() {
		c, err := catalog.Parse([]byte(nasDocument), nil)
		Expect(err).NotTo(HaveOccurred())

		data, err := yaml.Marshal(c.Document())
		Expect(err).NotTo(HaveOccurred())

		again, err := catalog.Parse(data, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Names()).To(Equal(c.Names()))
		Expect(again.Sizes()).To(Equal(c.Sizes()))

		ok, err := again.IsSupported("CG", "E")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should not share state with its document", func() {
		doc, err := catalog.Decode(strings.NewReader(`
suite: X
names: [x, y]
sizes: [S, L]
default_standard: c89
standards: {x: c11}
default_names: [x]
support:
  mode: matrix
  allow:
    x: [S]
    y: [S, L]
`))
		Expect(err).NotTo(HaveOccurred())

		c, err := doc.Build(nil)
		Expect(err).NotTo(HaveOccurred())

		doc.Support.Allow["x"] = append(doc.Support.Allow["x"], "L")
		doc.Support.Allow["y"][0] = "L"
		doc.Standards["x"] = "c89"
		doc.DefaultNames[0] = "y"

		supported := func(name, size string) bool {
			ok, err := c.IsSupported(name, size)
			Expect(err).NotTo(HaveOccurred())
			return ok
		}

		Expect(supported("x", "L")).To(BeFalse())
		Expect(supported("y", "S")).To(BeTrue())
		Expect(c.StandardFor("x")).To(Equal("c11"))
		Expect(c.DefaultNames()).To(Equal([]string{"x"}))

		out := c.Document()
		out.Standards["x"] = "c89"
		out.Support.Allow["x"] = append(out.Support.Allow["x"], "L")
		out.Support.Allow["y"][1] = "S"

		Expect(c.StandardFor("x")).To(Equal("c11"))
		Expect(supported("x", "L")).To(BeFalse())
		Expect(supported("y", "L")).To(BeTrue())
	})

	It("should load from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "nas.yaml")
		Expect(os.WriteFile(path, []byte(nasDocument), 0644)).To(Succeed())

		c, err := catalog.LoadFile(path, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Suite()).To(Equal("NAS"))

		_, err = catalog.LoadFile(filepath.Join(filepath.Dir(path), "missing.yaml"), nil)
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})
})
