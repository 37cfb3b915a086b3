// Package driver ties the parser and resolver together into the one
// exported entry point, LoadPackage: it walks a directory tree of .strict
// files, schedules their parsing with bounded concurrency, and aggregates
// every diagnostic produced along the way.
package driver

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config is the optional strict.yml sitting at a package root. Every field
// is optional; LoadConfig merges whatever is present over defaultConfig().
type Config struct {
	Concurrency     int      `yaml:"concurrency"`
	Excludes        []string `yaml:"excludes"`
	BaseLibraryPath string   `yaml:"base_library_path"`
}

func defaultConfig() Config {
	return Config{
		Concurrency: runtime.NumCPU(),
		Excludes:    nil,
	}
}

// LoadConfig reads strict.yml at path, if present, and merges it over the
// defaults. A missing file is not an error: the defaults are returned
// unchanged, since strict.yml is optional (spec.md's config loader is
// ambient tooling, not a required input).
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("driver: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var loaded Config
	if err := decoder.Decode(&loaded); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return cfg, fmt.Errorf("driver: parse %s: %w", path, err)
	}
	if err := mergo.Merge(&cfg, loaded, mergo.WithOverride); err != nil {
		return cfg, fmt.Errorf("driver: merge %s: %w", path, err)
	}
	return cfg, nil
}

// LoaderOption customizes a LoadPackage call beyond what strict.yml
// provides; an explicit option always overrides the value read from disk.
type LoaderOption func(*loadSettings)

type loadSettings struct {
	config       Config
	configPath   string
	hasExplicit  map[string]bool
	excludeNames map[string]bool
}

// WithConcurrency overrides the number of files parsed at once.
func WithConcurrency(n int) LoaderOption {
	return func(s *loadSettings) {
		s.config.Concurrency = n
		s.markExplicit("concurrency")
	}
}

// WithExcludes adds directory names (matched by base name, e.g. "testdata")
// that the loader should not descend into.
func WithExcludes(names ...string) LoaderOption {
	return func(s *loadSettings) {
		s.config.Excludes = append(s.config.Excludes, names...)
		s.markExplicit("excludes")
	}
}

// WithConfigPath overrides where LoadPackage looks for strict.yml (default:
// "<root>/strict.yml").
func WithConfigPath(path string) LoaderOption {
	return func(s *loadSettings) { s.configPath = path }
}

func (s *loadSettings) markExplicit(name string) {
	if s.hasExplicit == nil {
		s.hasExplicit = make(map[string]bool)
	}
	s.hasExplicit[name] = true
}

func (s *loadSettings) excluded(name string) bool {
	if s.excludeNames == nil {
		s.excludeNames = make(map[string]bool, len(s.config.Excludes))
		for _, n := range s.config.Excludes {
			s.excludeNames[n] = true
		}
	}
	return s.excludeNames[name]
}
