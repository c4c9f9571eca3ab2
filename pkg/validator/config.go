package validator

import (
	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the tunable parts of the rule table. Reserved names and
// excluded filename patterns come from the external distribution tool's
// naming constraints, so they are configurable rather than hard-coded.
type Config struct {
	MinNameLength       int      `mapstructure:"min_name_length" yaml:"min_name_length"`
	SkillLineBudget     int      `mapstructure:"skill_line_budget" yaml:"skill_line_budget"`
	ReferenceLineBudget int      `mapstructure:"reference_line_budget" yaml:"reference_line_budget"`
	ReservedNames       []string `mapstructure:"reserved_names" yaml:"reserved_names"`
	ExcludedFilenames   []string `mapstructure:"excluded_filenames" yaml:"excluded_filenames"`

	reserved      map[string]struct{}
	excludedGlobs []glob.Glob
}

// DefaultConfig returns the compiled-in rule table defaults.
func DefaultConfig() *Config {
	return &Config{
		MinNameLength:       4,
		SkillLineBudget:     150,
		ReferenceLineBudget: 500,
		ReservedNames: []string{
			"add", "help", "init", "install", "list",
			"remove", "search", "update", "version",
		},
		ExcludedFilenames: []string{
			"README*", "readme*", "index.md", ".*",
		},
	}
}

// GetConfigFromViper returns the validator configuration, layering any
// `validator` section from the viper config over the defaults.
func GetConfigFromViper() (*Config, error) {
	config := DefaultConfig()
	if viper.IsSet("validator") {
		if err := viper.UnmarshalKey("validator", config); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal validator configuration")
		}
	}
	return config, nil
}

// compile builds the lookup tables from the configured lists. All invalid
// entries are reported together rather than one at a time.
func (c *Config) compile() error {
	var result *multierror.Error

	if c.MinNameLength < 1 {
		result = multierror.Append(result, errors.Errorf("min_name_length must be positive, got %d", c.MinNameLength))
	}
	if c.SkillLineBudget < 1 {
		result = multierror.Append(result, errors.Errorf("skill_line_budget must be positive, got %d", c.SkillLineBudget))
	}
	if c.ReferenceLineBudget < 1 {
		result = multierror.Append(result, errors.Errorf("reference_line_budget must be positive, got %d", c.ReferenceLineBudget))
	}

	c.reserved = make(map[string]struct{}, len(c.ReservedNames))
	for _, name := range c.ReservedNames {
		c.reserved[name] = struct{}{}
	}

	c.excludedGlobs = c.excludedGlobs[:0]
	for _, pattern := range c.ExcludedFilenames {
		g, err := glob.Compile(pattern)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid excluded filename pattern %q", pattern))
			continue
		}
		c.excludedGlobs = append(c.excludedGlobs, g)
	}

	return result.ErrorOrNil()
}

func (c *Config) isReserved(name string) bool {
	_, ok := c.reserved[name]
	return ok
}

func (c *Config) isExcludedFilename(filename string) bool {
	for _, g := range c.excludedGlobs {
		if g.Match(filename) {
			return true
		}
	}
	return false
}
