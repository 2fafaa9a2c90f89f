package catalog_test

import (
	"bytes"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/specs-feup/clava-benchmarks/catalog"
)

var _ = Describe("Catalog", func() {
	Describe("name and size validation", func() {
		var c *catalog.Catalog

		BeforeEach(func() {
			var err error
			c, err = catalog.New("Toy", []string{"a", "b"}, []string{"S", "L"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should accept known names", func() {
			name, err := c.ValidateName("b")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("b"))
		})

		DescribeTable("should reject unknown names",
			func(candidate string) {
				_, err := c.ValidateName(candidate)

				var unknown *catalog.UnknownBenchmarkError
				Expect(errors.As(err, &unknown)).To(BeTrue())
				Expect(unknown.Name).To(Equal(candidate))
				Expect(unknown.Suite).To(Equal("Toy"))
				Expect(unknown.Valid).To(Equal([]string{"a", "b"}))
			},
			Entry("typo", "aa"),
			Entry("wrong case", "A"),
			Entry("empty", ""),
			Entry("size token", "S"),
		)

		It("should reject unknown sizes", func() {
			_, err := c.ValidateSize("XL")

			var unknown *catalog.UnknownSizeError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Size).To(Equal("XL"))
			Expect(err.Error()).To(ContainSubstring("S, L"))
		})

		It("should not change the vocabulary after a failed lookup", func() {
			_, _ = c.ValidateName("zzz")
			Expect(c.Names()).To(Equal([]string{"a", "b"}))
		})

		It("should propagate validation errors from IsSupported", func() {
			_, err := c.IsSupported("zzz", "S")
			Expect(err).To(BeAssignableToTypeOf(&catalog.UnknownBenchmarkError{}))

			_, err = c.IsSupported("a", "M")
			Expect(err).To(BeAssignableToTypeOf(&catalog.UnknownSizeError{}))
		})
	})

	Describe("Resolve", func() {
		It("should list every pair when all pairs are supported", func() {
			c, err := catalog.New("Toy", []string{"a", "b"}, []string{"S", "L"})
			Expect(err).NotTo(HaveOccurred())

			selections, err := c.Resolve([]string{"a"}, []string{"S", "L"})
			Expect(err).NotTo(HaveOccurred())
			Expect(selections).To(Equal([]catalog.Selection{
				{Benchmark: "a", Size: "S"},
				{Benchmark: "a", Size: "L"},
			}))
		})

		It("should drop unsupported pairs", func() {
			c, err := catalog.New("Toy", []string{"x"}, []string{"S", "L"},
				catalog.WithSupport(catalog.Deny{"x": {"L"}}))
			Expect(err).NotTo(HaveOccurred())

			supported, err := c.IsSupported("x", "L")
			Expect(err).NotTo(HaveOccurred())
			Expect(supported).To(BeFalse())

			selections, err := c.Resolve([]string{"x"}, []string{"S", "L"})
			Expect(err).NotTo(HaveOccurred())
			Expect(selections).To(Equal([]catalog.Selection{{Benchmark: "x", Size: "S"}}))
		})

		It("should use catalog order and drop duplicates", func() {
			c, err := catalog.New("Toy", []string{"a", "b", "c"}, []string{"S", "M", "L"})
			Expect(err).NotTo(HaveOccurred())

			selections, err := c.Resolve([]string{"c", "a", "c"}, []string{"L", "S"})
			Expect(err).NotTo(HaveOccurred())
			Expect(selections).To(Equal([]catalog.Selection{
				{Benchmark: "a", Size: "S"},
				{Benchmark: "a", Size: "L"},
				{Benchmark: "c", Size: "S"},
				{Benchmark: "c", Size: "L"},
			}))
		})

		It("should fail on the first invalid name", func() {
			c, err := catalog.New("Toy", []string{"a"}, []string{"S"})
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Resolve([]string{"a", "q", "r"}, []string{"S"})

			var unknown *catalog.UnknownBenchmarkError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Name).To(Equal("q"))
		})

		It("should skip unknown sizes in a lenient catalog", func() {
			logs := &bytes.Buffer{}
			logger := slog.New(slog.NewTextHandler(logs, nil))

			c, err := catalog.New("Toy", []string{"a"}, []string{"MINI", "SMALL"},
				catalog.WithLenientSizes(), catalog.WithLogger(logger))
			Expect(err).NotTo(HaveOccurred())

			selections, err := c.Resolve([]string{"a"}, []string{"HUGE", "SMALL"})
			Expect(err).NotTo(HaveOccurred())
			Expect(selections).To(Equal([]catalog.Selection{{Benchmark: "a", Size: "SMALL"}}))
			Expect(logs.String()).To(ContainSubstring("HUGE"))
		})

		It("should keep names strict in a lenient catalog", func() {
			c, err := catalog.New("Toy", []string{"a"}, []string{"S"}, catalog.WithLenientSizes())
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Resolve([]string{"b"}, []string{"S"})
			Expect(err).To(BeAssignableToTypeOf(&catalog.UnknownBenchmarkError{}))
		})
	})

	Describe("Require", func() {
		It("should report an unsupported pairing", func() {
			c, err := catalog.New("Toy", []string{"bfs", "lbm"}, []string{"short", "long", "NY"},
				catalog.WithSupport(catalog.Matrix{
					"bfs": {"NY"},
					"lbm": {"short", "long"},
				}))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Require("bfs", "long")

			var unsupported *catalog.UnsupportedCombinationError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.Supported).To(Equal([]string{"NY"}))

			sel, err := c.Require("lbm", "long")
			Expect(err).NotTo(HaveOccurred())
			Expect(sel.String()).To(Equal("lbm-long"))
		})
	})

	Describe("StandardFor", func() {
		It("should prefer the per-benchmark standard", func() {
			c, err := catalog.New("Toy", []string{"jpeg", "sobel"}, []string{"N"},
				catalog.WithStandard("c++17"),
				catalog.WithStandards(map[string]string{"jpeg": "c11"}))
			Expect(err).NotTo(HaveOccurred())

			Expect(c.StandardFor("jpeg")).To(Equal("c11"))
			Expect(c.StandardFor("sobel")).To(Equal("c++17"))
		})

		It("should return empty when the suite has no standard", func() {
			c, err := catalog.New("Toy", []string{"a"}, []string{"N"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.StandardFor("a")).To(BeEmpty())
		})
	})

	Describe("New", func() {
		It("should reject an empty vocabulary", func() {
			_, err := catalog.New("Toy", nil, []string{"N"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject defaults outside the vocabulary", func() {
			_, err := catalog.New("Toy", []string{"a"}, []string{"N"},
				catalog.WithDefaults([]string{"b"}, nil))

			var unknown *catalog.UnknownBenchmarkError
			Expect(errors.As(err, &unknown)).To(BeTrue())
		})

		It("should default to every benchmark and the first size", func() {
			c, err := catalog.New("Toy", []string{"a", "b"}, []string{"S", "L"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.DefaultNames()).To(Equal([]string{"a", "b"}))
			Expect(c.DefaultSizes()).To(Equal([]string{"S"}))
		})
	})
})
