package local

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Standards lists the language standards Config accepts.
const Standards = "c89 c90 c99 c11 c17 c18 c23 gnu89 gnu99 gnu11 gnu17 " +
	"c++98 c++03 c++11 c++14 c++17 c++20 c++23 gnu++11 gnu++14 gnu++17 gnu++20"

var validate = validator.New()

// Config holds the compiler standard and flags used by Builder. An empty
// standard means the compiler default.
type Config struct {
	standard string
	flags    string
}

// NewConfig creates a Config after validating standard.
func NewConfig(standard, flags string) (*Config, error) {
	c := &Config{}
	if err := c.SetStandard(standard); err != nil {
		return nil, err
	}
	c.flags = flags
	return c, nil
}

// Standard returns the language standard.
func (c *Config) Standard() string { return c.standard }

// SetStandard changes the language standard.
func (c *Config) SetStandard(standard string) error {
	if err := validate.Var(standard, "omitempty,oneof="+Standards); err != nil {
		return errors.Wrapf(err, "unsupported standard %q", standard)
	}
	c.standard = standard
	return nil
}

// Flags returns the extra compiler flags.
func (c *Config) Flags() string { return c.flags }

// SetFlags replaces the extra compiler flags.
func (c *Config) SetFlags(flags string) error {
	c.flags = flags
	return nil
}

// IsCXX reports whether the standard selects C++.
func (c *Config) IsCXX() bool {
	return isCXXStandard(c.standard)
}
