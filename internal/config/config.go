package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/offerlab/internal/classify"
	"github.com/cleared-dev/offerlab/internal/decline"
	"github.com/cleared-dev/offerlab/internal/offers"
)

// FileName is the config file written by init and read by default.
const FileName = "offerlab.yaml"

// DefaultRulesFile is where init writes the classifier rule table, relative
// to the config file.
const DefaultRulesFile = "rules/classifier-rules.yaml"

// Config represents the top-level offerlab.yaml configuration.
type Config struct {
	Decline    decline.Options  `yaml:"decline"`
	Offers     offers.Options   `yaml:"offers"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// ClassifierConfig points at an optional rule table.
type ClassifierConfig struct {
	// RulesFile replaces the built-in taxonomy when set. Relative paths are
	// resolved against the config file's directory.
	RulesFile string `yaml:"rules_file,omitempty"`
}

// Load reads an offerlab.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	negDays := 5
	momDelta := 0.5
	return &Config{
		Decline: decline.Options{
			MinimumRevenue3mo:  decimal.NewFromInt(60000),
			NegativeDayHardMax: &negDays,
			LargeMoMDeltaPct:   &momDelta,
		},
		Offers: offers.DefaultOptions(),
		Classifier: ClassifierConfig{
			RulesFile: DefaultRulesFile,
		},
	}
}

// NewClassifier builds the classifier the config asks for: the rule file
// when one is named, otherwise the built-in taxonomy. A relative rule path is
// resolved against baseDir, normally the config file's directory.
func (c *Config) NewClassifier(baseDir string) (*classify.Classifier, error) {
	path := c.Classifier.RulesFile
	if path == "" {
		return classify.Default(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	rs, err := classify.LoadRulesFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading classifier rules: %w", err)
	}
	return classify.New(rs), nil
}
