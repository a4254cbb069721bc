package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"calclog/pkg/calclog"
)

// Package is one workout reading: a workout code and its positional values.
type Package struct {
	Code   string    `toml:"code"`
	Values []float64 `toml:"values"`
}

type packageFile struct {
	Packages []Package `toml:"package"`
}

// DefaultPackages returns the built-in demo readings.
func DefaultPackages() []Package {
	return []Package{
		{Code: "SWM", Values: []float64{720, 1, 80, 25, 40}},
		{Code: "RUN", Values: []float64{15000, 1, 75}},
		{Code: "WLK", Values: []float64{9000, 1, 75, 180}},
	}
}

// LoadPackages reads a TOML file of [[package]] tables. Every entry is
// checked against the workout registry and all problems are reported together.
func LoadPackages(path string) ([]Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package file: %w", err)
	}
	return ParsePackages(string(data))
}

// ParsePackages decodes package tables from TOML text.
func ParsePackages(text string) ([]Package, error) {
	var file packageFile
	meta, err := toml.Decode(text, &file)
	if err != nil {
		return nil, fmt.Errorf("decode package file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in package file: %v", undecoded)
	}
	if len(file.Packages) == 0 {
		return nil, fmt.Errorf("package file has no [[package]] entries")
	}

	var errs error
	for i, pkg := range file.Packages {
		if len(pkg.Values) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("package %d (%s): values are required", i+1, pkg.Code))
			continue
		}
		if _, err := calclog.BuildRecord(pkg.Code, pkg.Values); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("package %d: %w", i+1, err))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return file.Packages, nil
}
