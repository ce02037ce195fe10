// Package config loads the optional .structgrep.hcl project file:
// default include/exclude globs, a default highlight setting, and
// named reusable patterns. Grounded on the teacher's
// cmd/copyrc.LoadConfig, trimmed to HCL only (copyrc's YAML fallback
// has no parallel here: there is exactly one config format, so the
// suffix-sniffing branch that config supported doesn't carry over).
package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// PatternBlock is a named, reusable pattern body a user can refer to
// with --pattern-name instead of repeating a literal pattern string.
type PatternBlock struct {
	Name string `hcl:"name,label"`
	Body string `hcl:"body,attr"`
}

// Config is the decoded contents of .structgrep.hcl.
type Config struct {
	Include   []string       `hcl:"include,optional"`
	Exclude   []string       `hcl:"exclude,optional"`
	Highlight *bool          `hcl:"highlight,optional"`
	Patterns  []PatternBlock `hcl:"pattern,block"`
}

// Load reads and decodes path. A missing file is not this function's
// concern: callers check existence first and treat a missing config as
// an empty one, matching the CLI's "config is optional" contract.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{}
	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, ctx, &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// Lookup resolves a --pattern-name argument against the config's named
// patterns. Matching is case-sensitive and exact: an unresolved name is
// the caller's problem to report as a usage error, not something this
// package papers over.
func (c *Config) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, p := range c.Patterns {
		if p.Name == name {
			return p.Body, true
		}
	}
	return "", false
}
