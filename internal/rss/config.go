package rss

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FeedsConfig is YAML config structure
//
//	aggregator:
//	  name: GNews
//	  language: en
//	  country: US
//	  max_results: 50
//	feeds:
//	  - name: Forexlive
//	    url: https://www.forexlive.com/feed/
type FeedsConfig struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Feeds      []FeedConfig     `yaml:"feeds"`
}

type AggregatorConfig struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	Language   string `yaml:"language"`
	Country    string `yaml:"country"`
	MaxResults int    `yaml:"max_results"`
	Disabled   bool   `yaml:"disabled"`
}

type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

const googleNewsURL = "https://news.google.com/rss"

// DefaultFeedsConfig is used when no feeds file exists.
func DefaultFeedsConfig() *FeedsConfig {
	return &FeedsConfig{
		Aggregator: AggregatorConfig{
			Name:       "GNews",
			URL:        googleNewsURL,
			Language:   "en",
			Country:    "US",
			MaxResults: 50,
		},
		Feeds: []FeedConfig{
			{Name: "Forexlive", URL: "https://www.forexlive.com/feed/"},
			{Name: "CryptoPanic", URL: "https://cryptopanic.com/feed/"},
		},
	}
}

// LoadFeeds reads the feed list from a YAML file. A missing or empty file
// yields the defaults (and false); omitted aggregator fields are filled
// from the defaults.
func LoadFeeds(path string) (*FeedsConfig, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultFeedsConfig(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultFeedsConfig(), false, nil
		}
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, true, cfg.Validate()
}

func (c *FeedsConfig) applyDefaults() {
	def := DefaultFeedsConfig().Aggregator
	a := &c.Aggregator
	if a.Name == "" {
		a.Name = def.Name
	}
	if a.URL == "" {
		a.URL = def.URL
	}
	if a.Language == "" {
		a.Language = def.Language
	}
	if a.Country == "" {
		a.Country = def.Country
	}
	if a.MaxResults <= 0 {
		a.MaxResults = def.MaxResults
	}
}

func (c *FeedsConfig) Validate() error {
	seen := make(map[string]bool, len(c.Feeds)+1)
	if !c.Aggregator.Disabled {
		seen[c.Aggregator.Name] = true
	}
	for i, f := range c.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed #%d: name is required", i+1)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q: url is required", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("feed %q: duplicate name", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}
