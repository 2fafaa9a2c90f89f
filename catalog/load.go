package catalog

import (
	"bytes"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Support modes accepted in catalog documents.
const (
	SupportAll    = "all"
	SupportSize   = "size"
	SupportMatrix = "matrix"
	SupportDeny   = "deny"
)

// Document is the on-disk form of a catalog. JSON documents are accepted as
// well since they are valid YAML.
type Document struct {
	Suite           string            `yaml:"suite" validate:"required"`
	Names           []string          `yaml:"names" validate:"required,min=1,unique,dive,required"`
	Sizes           []string          `yaml:"sizes" validate:"required,min=1,unique,dive,required"`
	LenientSizes    bool              `yaml:"lenient_sizes"`
	DefaultStandard string            `yaml:"default_standard"`
	Standards       map[string]string `yaml:"standards" validate:"omitempty,dive,keys,required,endkeys,required"`
	Support         SupportDocument   `yaml:"support"`
	DefaultNames    []string          `yaml:"default_names" validate:"omitempty,unique"`
	DefaultSizes    []string          `yaml:"default_sizes" validate:"omitempty,unique"`
}

// SupportDocument describes the size-support rule of a Document.
type SupportDocument struct {
	Mode  string              `yaml:"mode" validate:"omitempty,oneof=all size matrix deny"`
	Sizes []string            `yaml:"sizes" validate:"required_if=Mode size"`
	Allow map[string][]string `yaml:"allow" validate:"required_if=Mode matrix"`
	Deny  map[string][]string `yaml:"deny" validate:"required_if=Mode deny"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Rule converts the document into a SupportRule.
func (d SupportDocument) Rule() SupportRule {
	switch d.Mode {
	case SupportSize:
		return SizeIs(slices.Clone(d.Sizes))
	case SupportMatrix:
		return Matrix(cloneTable(d.Allow))
	case SupportDeny:
		return Deny(cloneTable(d.Deny))
	default:
		return AllowAll{}
	}
}

// Build validates the document and creates the catalog.
func (d *Document) Build(logger *slog.Logger) (*Catalog, error) {
	if err := validate.Struct(d); err != nil {
		return nil, errors.Wrapf(err, "invalid catalog document %q", d.Suite)
	}

	opts := []Option{
		WithSupport(d.Support.Rule()),
		WithStandard(d.DefaultStandard),
		WithStandards(d.Standards),
		WithDefaults(d.DefaultNames, d.DefaultSizes),
	}
	if d.LenientSizes {
		opts = append(opts, WithLenientSizes())
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}

	c, err := New(d.Suite, d.Names, d.Sizes, opts...)
	if err != nil {
		return nil, err
	}

	if err := d.checkSupportKeys(c); err != nil {
		return nil, err
	}

	return c, nil
}

func (d *Document) checkSupportKeys(c *Catalog) error {
	tables := []map[string][]string{d.Support.Allow, d.Support.Deny}
	for _, table := range tables {
		for name, sizes := range table {
			if _, err := c.ValidateName(name); err != nil {
				return errors.Wrap(err, "support table")
			}
			for _, size := range sizes {
				if _, err := c.ValidateSize(size); err != nil {
					return errors.Wrapf(err, "support table entry %q", name)
				}
			}
		}
	}

	for _, size := range d.Support.Sizes {
		if _, err := c.ValidateSize(size); err != nil {
			return errors.Wrap(err, "support sizes")
		}
	}

	return nil
}

// Decode reads a catalog document from r.
func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog document")
	}

	return doc, nil
}

// Load reads and builds a catalog from r.
func Load(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return doc.Build(logger)
}

// Parse builds a catalog from an in-memory document.
func Parse(data []byte, logger *slog.Logger) (*Catalog, error) {
	return Load(bytes.NewReader(data), logger)
}

// LoadFile reads and builds a catalog from the file at path.
func LoadFile(path string, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog file")
	}
	defer func() { _ = f.Close() }()

	return Load(f, logger)
}

// Document returns the catalog in its on-disk form.
func (c *Catalog) Document() *Document {
	doc := &Document{
		Suite:           c.suite,
		Names:           c.names.Values(),
		Sizes:           c.sizes.Values(),
		LenientSizes:    c.sizes.IsLenient(),
		DefaultStandard: c.defaultStandard,
		Standards:       maps.Clone(c.standards),
		DefaultNames:    c.DefaultNames(),
		DefaultSizes:    c.DefaultSizes(),
	}

	switch rule := cloneRule(c.support).(type) {
	case SizeIs:
		doc.Support = SupportDocument{Mode: SupportSize, Sizes: rule}
	case Matrix:
		doc.Support = SupportDocument{Mode: SupportMatrix, Allow: rule}
	case Deny:
		doc.Support = SupportDocument{Mode: SupportDeny, Deny: rule}
	default:
		doc.Support = SupportDocument{Mode: SupportAll}
	}

	return doc
}
