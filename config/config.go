package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Walk      WalkConfig      `json:"walk" yaml:"walk"`
	Filters   FilterConfig    `json:"filters" yaml:"filters"`
	Histogram HistogramConfig `json:"histogram" yaml:"histogram"`
	Paths     PathsConfig     `json:"paths" yaml:"paths"`
	Coupling  CouplingConfig  `json:"coupling" yaml:"coupling"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// WalkConfig selects which commits are visited and how trees are diffed.
type WalkConfig struct {
	Refs         []string `json:"refs" yaml:"refs"`                 // Empty means HEAD plus all local branches
	NoMerges     bool     `json:"noMerges" yaml:"noMerges"`         // Skip commits with more than one parent
	MaxCommits   int      `json:"maxCommits" yaml:"maxCommits"`     // 0 means unlimited
	DiffBackend  string   `json:"diffBackend" yaml:"diffBackend"`   // "gogit" or "gitcli"
	RenameDetect string   `json:"renameDetect" yaml:"renameDetect"` // "off", "simple" or "aggressive"
}

// FilterConfig holds path and message predicates applied to every walk.
type FilterConfig struct {
	Paths    []string `json:"paths" yaml:"paths"`
	Suffixes []string `json:"suffixes" yaml:"suffixes"`
	Globs    []string `json:"globs" yaml:"globs"`
	Match    string   `json:"match" yaml:"match"`       // "any" or "all"
	Messages []string `json:"messages" yaml:"messages"` // Regex patterns, case-insensitive
}

// HistogramConfig holds defaults for the histogram command.
type HistogramConfig struct {
	By   string `json:"by" yaml:"by"`     // "author" or "committer"
	Sort string `json:"sort" yaml:"sort"` // "count", "last", "first" or "key"
}

// PathsConfig holds settings for the paths command.
type PathsConfig struct {
	BurstWindowDays int `json:"burstWindowDays" yaml:"burstWindowDays"`
}

// CouplingConfig holds thresholds for change coupling.
type CouplingConfig struct {
	MinCoCommits      int     `json:"minCoCommits" yaml:"minCoCommits"`
	MinJaccard        float64 `json:"minJaccard" yaml:"minJaccard"`
	MaxFilesPerCommit int     `json:"maxFilesPerCommit" yaml:"maxFilesPerCommit"` // 0 means unlimited
	TopPairs          int     `json:"topPairs" yaml:"topPairs"`                   // 0 means all
}

// OutputConfig holds report defaults.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Top    int    `json:"top" yaml:"top"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// MatchAny and MatchAll are the accepted values of FilterConfig.Match.
const (
	MatchAny = "any"
	MatchAll = "all"
)

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Walk: WalkConfig{
			Refs:         []string{},
			DiffBackend:  "gogit",
			RenameDetect: "simple",
		},
		Filters: FilterConfig{
			Paths:    []string{},
			Suffixes: []string{},
			Globs:    []string{},
			Match:    MatchAny,
			Messages: []string{},
		},
		Histogram: HistogramConfig{
			By:   "author",
			Sort: "count",
		},
		Paths: PathsConfig{
			BurstWindowDays: 7,
		},
		Coupling: CouplingConfig{
			MinCoCommits:      3,
			MinJaccard:        0.1,
			MaxFilesPerCommit: 50,
			TopPairs:          50,
		},
		Output: OutputConfig{
			Format: "console",
			Top:    0,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Filters.Match) {
	case "", MatchAny, MatchAll:
	default:
		return fmt.Errorf("filters.match must be %q or %q, got %q", MatchAny, MatchAll, c.Filters.Match)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	if c.Walk.MaxCommits < 0 {
		return fmt.Errorf("walk.maxCommits must not be negative, got %d", c.Walk.MaxCommits)
	}
	if c.Paths.BurstWindowDays < 1 {
		return fmt.Errorf("paths.burstWindowDays must be at least 1, got %d", c.Paths.BurstWindowDays)
	}
	if c.Coupling.MinCoCommits < 1 {
		return fmt.Errorf("coupling.minCoCommits must be at least 1, got %d", c.Coupling.MinCoCommits)
	}
	if c.Coupling.MinJaccard < 0 || c.Coupling.MinJaccard > 1 {
		return fmt.Errorf("coupling.minJaccard must be within [0, 1], got %g", c.Coupling.MinJaccard)
	}
	if c.Coupling.MaxFilesPerCommit < 0 || c.Coupling.TopPairs < 0 {
		return fmt.Errorf("coupling limits must not be negative")
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("output.top must not be negative, got %d", c.Output.Top)
	}
	return nil
}

var configFileNames = []string{".commitwalk.json", ".commitwalk.yaml", ".commitwalk.yml"}

// findConfigFile returns the first existing default config file in the
// working directory, then in the home directory.
func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range configFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// An empty path searches the default locations.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig saves configuration to a file, as YAML when the extension
// says so and JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
