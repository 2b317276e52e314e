package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Per-provider tuning that's easier to manage in YAML than env vars.
type YAMLConfig struct {
	Providers ProvidersConfig `yaml:"providers"`
}

// ProvidersConfig groups the provider sections.
type ProvidersConfig struct {
	Wikipedia *WikipediaYAML `yaml:"wikipedia"`
	Trends    *TrendsYAML    `yaml:"trends"`
}

// WikipediaYAML overrides WikipediaConfig. Unset fields keep their value.
type WikipediaYAML struct {
	Enabled        *bool         `yaml:"enabled"`
	APIURL         string        `yaml:"api_url"`
	ArticleURL     string        `yaml:"article_url"`
	SuggestLimit   int           `yaml:"suggest_limit"`
	SearchLimit    int           `yaml:"search_limit"`
	ThumbnailSize  int           `yaml:"thumbnail_size"`
	SuggestTimeout time.Duration `yaml:"suggest_timeout"`
	SearchTimeout  time.Duration `yaml:"search_timeout"`
}

// TrendsYAML overrides TrendsConfig. Unset fields keep their value.
type TrendsYAML struct {
	Enabled     *bool         `yaml:"enabled"`
	URL         string        `yaml:"url"`
	Language    string        `yaml:"language"`
	Timezone    int           `yaml:"timezone"`
	Limit       int           `yaml:"limit"`
	Timeout     time.Duration `yaml:"timeout"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	return ParseYAMLConfig(data)
}

// ParseYAMLConfig decodes YAML configuration bytes.
func ParseYAMLConfig(data []byte) (*YAMLConfig, error) {
	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Apply overlays the YAML provider settings on c.
func (y *YAMLConfig) Apply(c *Config) {
	if y == nil {
		return
	}

	if w := y.Providers.Wikipedia; w != nil {
		if w.Enabled != nil {
			c.Wikipedia.Enabled = *w.Enabled
		}
		setString(&c.Wikipedia.APIURL, w.APIURL)
		setString(&c.Wikipedia.ArticleURL, w.ArticleURL)
		setInt(&c.Wikipedia.SuggestLimit, w.SuggestLimit)
		setInt(&c.Wikipedia.SearchLimit, w.SearchLimit)
		setInt(&c.Wikipedia.ThumbnailSize, w.ThumbnailSize)
		setDuration(&c.Wikipedia.SuggestTimeout, w.SuggestTimeout)
		setDuration(&c.Wikipedia.SearchTimeout, w.SearchTimeout)
	}

	if t := y.Providers.Trends; t != nil {
		if t.Enabled != nil {
			c.Trends.Enabled = *t.Enabled
		}
		setString(&c.Trends.URL, t.URL)
		setString(&c.Trends.Language, t.Language)
		setInt(&c.Trends.Timezone, t.Timezone)
		setInt(&c.Trends.Limit, t.Limit)
		setDuration(&c.Trends.Timeout, t.Timeout)
		setDuration(&c.Trends.DialTimeout, t.DialTimeout)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
