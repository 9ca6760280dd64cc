// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct. It is constructed once
// at startup and passed into the pipeline; there is no process-wide mutable
// backend state, so independent runs may use different configurations.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Export   ExportConfig   `mapstructure:"export"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LLMConfig selects and configures the generation backend. When UseExternalAPI
// is false the client speaks the local ollama protocol; otherwise it targets an
// OpenAI-compatible chat completions endpoint.
type LLMConfig struct {
	OllamaURL      string `mapstructure:"ollama_url"`
	Model          string `mapstructure:"model"`
	UseExternalAPI bool   `mapstructure:"use_external_api"`
	ExternalAPIURL string `mapstructure:"external_api_url"`
	ExternalAPIKey string `mapstructure:"external_api_key"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds, per request
}

// PipelineConfig holds the knobs for one generation run.
type PipelineConfig struct {
	Recursion    bool              `mapstructure:"recursion"`
	MaxRetries   int               `mapstructure:"max_retries"`
	Temperatures TemperatureConfig `mapstructure:"temperatures"`
}

// TemperatureConfig carries the sampling temperature per stage.
type TemperatureConfig struct {
	Paraphrase     float64 `mapstructure:"paraphrase"`
	Segment        float64 `mapstructure:"segment"`
	SelectTemplate float64 `mapstructure:"select_template"`
	ExtractContent float64 `mapstructure:"extract_content"`
	Verification   float64 `mapstructure:"verification"`
}

type ExportConfig struct {
	OutputDir string   `mapstructure:"output_dir"`
	Formats   []string `mapstructure:"formats"` // json, markdown, docx
}

type WatchConfig struct {
	InputDir      string `mapstructure:"input_dir"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "slideforge"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.LLM.OllamaURL == "" {
		cfg.LLM.OllamaURL = "http://localhost:11434"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama3.1"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 120000
	}
	if cfg.Pipeline.MaxRetries == 0 {
		cfg.Pipeline.MaxRetries = 2
	}
	t := &cfg.Pipeline.Temperatures
	if t.Paraphrase == 0 {
		t.Paraphrase = 0.5
	}
	if t.Segment == 0 {
		t.Segment = 0.4
	}
	if t.SelectTemplate == 0 {
		t.SelectTemplate = 0.3
	}
	if t.ExtractContent == 0 {
		t.ExtractContent = 0.4
	}
	if t.Verification == 0 {
		t.Verification = 0.2
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "output"
	}
	if len(cfg.Export.Formats) == 0 {
		cfg.Export.Formats = []string{"json", "markdown"}
	}
	if cfg.Watch.InputDir == "" {
		cfg.Watch.InputDir = "transcripts"
	}
	if cfg.Watch.MaxConcurrent == 0 {
		cfg.Watch.MaxConcurrent = 2
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.LLM.UseExternalAPI && cfg.LLM.ExternalAPIURL == "" {
		return fmt.Errorf("llm.external_api_url is required when llm.use_external_api is true")
	}
	if cfg.Pipeline.MaxRetries < 0 {
		return fmt.Errorf("pipeline.max_retries must not be negative")
	}
	for _, f := range cfg.Export.Formats {
		switch f {
		case "json", "markdown", "docx":
		default:
			return fmt.Errorf("unsupported export format %q", f)
		}
	}
	return nil
}
