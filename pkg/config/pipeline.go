package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PipelineConfig holds per-stage model choices and retrieval settings.
type PipelineConfig struct {
	Planner     StageTarget     `yaml:"planner,omitempty"`
	Agents      StageTarget     `yaml:"agents,omitempty"`
	Synthesizer StageTarget     `yaml:"synthesizer,omitempty"`
	Retrieval   RetrievalConfig `yaml:"retrieval,omitempty"`
	// DefaultLanguage is used when the caller does not force one and
	// the planner cannot detect one.
	DefaultLanguage string `yaml:"default_language,omitempty"`
	// EnableRepair controls the planner's one-shot JSON repair reprompt.
	EnableRepair *bool `yaml:"enable_repair,omitempty"`
	// RunlogDir, when set, enables per-question run records.
	RunlogDir string `yaml:"runlog_dir,omitempty"`
}

// StageTarget specifies an adapter and model combination for one stage.
type StageTarget struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
}

// RetrievalConfig holds cache and fetch settings.
type RetrievalConfig struct {
	CacheTTLHours       int                 `yaml:"cache_ttl_hours,omitempty"`
	MaxParallel         int                 `yaml:"max_parallel,omitempty"`
	FetchTimeoutSeconds int                 `yaml:"fetch_timeout_s,omitempty"`
	MaxResultsPerPage   int                 `yaml:"max_results,omitempty"`
	AllowedHosts        map[string][]string `yaml:"allowed_hosts,omitempty"`
}

// CacheTTL returns the cache TTL as a duration.
func (c RetrievalConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// FetchTimeout returns the per-fetch timeout as a duration.
func (c RetrievalConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// LoadPipelineConfig reads pipeline configuration from a YAML file.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyPipelineDefaults(&cfg)
	return &cfg, nil
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() *PipelineConfig {
	cfg := &PipelineConfig{
		Planner: StageTarget{
			Adapter: "openai",
			Model:   "gpt-5.2-instant",
		},
		Agents: StageTarget{
			Adapter: "anthropic",
			Model:   "claude-sonnet-4-20250514",
		},
		Synthesizer: StageTarget{
			Adapter: "anthropic",
			Model:   "claude-sonnet-4-20250514",
		},
	}

	applyPipelineDefaults(cfg)
	return cfg
}

func applyPipelineDefaults(cfg *PipelineConfig) {
	if cfg == nil {
		return
	}
	if cfg.Planner.Adapter == "" {
		cfg.Planner = StageTarget{Adapter: "openai", Model: "gpt-5.2-instant"}
	}
	if cfg.Agents.Adapter == "" {
		cfg.Agents = StageTarget{Adapter: "anthropic", Model: "claude-sonnet-4-20250514"}
	}
	if cfg.Synthesizer.Adapter == "" {
		cfg.Synthesizer = StageTarget{Adapter: "anthropic", Model: "claude-sonnet-4-20250514"}
	}
	if cfg.Retrieval.CacheTTLHours == 0 {
		cfg.Retrieval.CacheTTLHours = 24
	}
	if cfg.Retrieval.MaxParallel == 0 {
		cfg.Retrieval.MaxParallel = 4
	}
	if cfg.Retrieval.FetchTimeoutSeconds == 0 {
		cfg.Retrieval.FetchTimeoutSeconds = 30
	}
	if cfg.Retrieval.MaxResultsPerPage == 0 {
		cfg.Retrieval.MaxResultsPerPage = 5
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.EnableRepair == nil {
		enabled := true
		cfg.EnableRepair = &enabled
	}
}
