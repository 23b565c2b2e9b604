package model

import "time"

// Config is the complete runtime configuration. Thresholds and tolerances are
// named here rather than inlined at call sites so they can be re-tuned
// without code changes.
type Config struct {
	Matching    MatchingConfig    `yaml:"matching" mapstructure:"matching"`
	Tolerance   ToleranceConfig   `yaml:"tolerance" mapstructure:"tolerance"`
	Merge       MergeConfig       `yaml:"merge" mapstructure:"merge"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Extraction  ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// MatchingConfig holds the fuzzy-matching thresholds, empirically tuned.
type MatchingConfig struct {
	IdentifierThreshold float64 `yaml:"identifier_threshold" mapstructure:"identifier_threshold"`
	IdentifierPrefixLen int     `yaml:"identifier_prefix_len" mapstructure:"identifier_prefix_len"`
	AddressThreshold    float64 `yaml:"address_threshold" mapstructure:"address_threshold"`
	NameThreshold       float64 `yaml:"name_threshold" mapstructure:"name_threshold"`
}

// ToleranceConfig holds the numeric comparison tolerances.
type ToleranceConfig struct {
	Value   float64 `yaml:"value" mapstructure:"value"`     // currency units
	Surface float64 `yaml:"surface" mapstructure:"surface"` // square meters
	Percent float64 `yaml:"percent" mapstructure:"percent"` // percentage points
}

// MergeConfig tunes the consensus merge engine.
type MergeConfig struct {
	// MinPropertyFields is the minimum non-empty field count for a property
	// entry with no cadastral reference and no address to survive dedup.
	MinPropertyFields int `yaml:"min_property_fields" mapstructure:"min_property_fields"`
}

// LLMConfig configures the extraction backend.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CacheConfig configures the extraction cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, redis
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	RedisAddr string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisDB   int           `yaml:"redis_db" mapstructure:"redis_db"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig bounds the extraction fan-out.
type ConcurrencyConfig struct {
	ExtractionWorkers int     `yaml:"extraction_workers" mapstructure:"extraction_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ExtractionConfig tunes document chunking.
type ExtractionConfig struct {
	SubPageChunking bool `yaml:"sub_page_chunking" mapstructure:"sub_page_chunking"`
	OverlapPercent  int  `yaml:"overlap_percent" mapstructure:"overlap_percent"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			IdentifierThreshold: 0.85,
			IdentifierPrefixLen: 14,
			AddressThreshold:    0.8,
			NameThreshold:       0.75,
		},
		Tolerance: ToleranceConfig{
			Value:   0.01,
			Surface: 1.0,
			Percent: 0.1,
		},
		Merge: MergeConfig{
			MinPropertyFields: 2,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ExtractionWorkers: 4,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Extraction: ExtractionConfig{
			SubPageChunking: true,
			OverlapPercent:  10,
		},
		Output: OutputConfig{},
	}
}
