package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for repogauge. The engine receives
// a snapshot by value at construction; runtime mutation of a Config has no
// effect on an analysis already in flight.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// File inclusion filter
	Filter FilterConfig `koanf:"filter"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls history extraction and per-file processing.
type AnalysisConfig struct {
	// Branch overrides default-branch detection when non-empty.
	Branch string `koanf:"branch"`
	// Workers bounds the per-file metric pool. Zero means the default of
	// min(4, NumCPU).
	Workers int `koanf:"workers"`
	// CommandTimeout is the per-git-command timeout in seconds.
	CommandTimeout int `koanf:"command_timeout"`
	// ProbeTimeout is the repository validity check timeout in seconds.
	ProbeTimeout int `koanf:"probe_timeout"`
	// KeepCommits retains the raw commit records in the result. Large
	// histories can be summarized without them.
	KeepCommits bool `koanf:"keep_commits"`
}

// FilterConfig decides which tracked files take part in per-file analysis.
type FilterConfig struct {
	ByExtension bool     `koanf:"by_extension"`
	Extensions  []string `koanf:"extensions"`
	// MaxExtensionLength buckets implausibly long extensions as "" in the
	// extension histogram.
	MaxExtensionLength int `koanf:"max_extension_length"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // table, json, yaml
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// allowedExtensions is the default suffix allow-list. Multi-part suffixes
// (".d.ts") must sort before their shorter variants would match, so matching
// is done with strings.HasSuffix over the whole lowercased path.
var allowedExtensions = []string{
	".asm", ".bash", ".c", ".cc", ".cjs", ".cl", ".cpp", ".cs", ".cu",
	".cuh", ".cxx", ".d.ts", ".gemspec", ".go", ".h", ".hh", ".hpp",
	".hxx", ".java", ".js", ".jsx", ".kt", ".kts", ".lua", ".m", ".mjs",
	".mm", ".php", ".phtml", ".pl", ".pm", ".proto", ".pxd", ".py",
	".pyi", ".pyx", ".r", ".rake", ".rb", ".rs", ".s", ".scala", ".sh",
	".swift", ".thrift", ".ts", ".tsx", ".zsh",
}

// extensionlessIncludes are the basenames admitted despite having no
// extension.
var extensionlessIncludes = map[string]bool{
	"Makefile":   true,
	"Dockerfile": true,
	"Rakefile":   true,
	"Gemfile":    true,
	"CMakeLists": true,
}

// DefaultWorkers is the worker-pool size used when none is configured.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Branch:         "",
			Workers:        DefaultWorkers(),
			CommandTimeout: 300,
			ProbeTimeout:   5,
			KeepCommits:    false,
		},
		Filter: FilterConfig{
			ByExtension:        true,
			Extensions:         append([]string(nil), allowedExtensions...),
			MaxExtensionLength: 10,
		},
		Output: OutputConfig{
			Format:  "table",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"repogauge.toml",
		"repogauge.yaml",
		"repogauge.yml",
		"repogauge.json",
		".repogauge.toml",
		".repogauge.yaml",
		".repogauge.yml",
		".repogauge.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// ShouldInclude reports whether a tracked file takes part in per-file
// analysis. With filtering disabled everything passes. Dotfiles never pass.
// Extensionless files pass only when the basename is a known build file.
func (c *Config) ShouldInclude(path string) bool {
	if !c.Filter.ByExtension {
		return true
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return false
	}

	// Dots in parent directories do not make a file extensioned.
	if !strings.Contains(base, ".") {
		return extensionlessIncludes[base]
	}

	lower := strings.ToLower(path)
	for _, ext := range c.Filter.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExtensionOf returns the histogram bucket for a path: the lowercased
// extension without the dot, "" for extensionless or over-long extensions.
func (c *Config) ExtensionOf(path string) string {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return ""
	}
	ext := strings.ToLower(base[idx+1:])
	if len(ext) > c.Filter.MaxExtensionLength {
		return ""
	}
	return ext
}
