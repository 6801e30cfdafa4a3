package commands

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Dataset      string          `mapstructure:"dataset"`
	Annotated    string          `mapstructure:"annotated"`
	GoldStrategy string          `mapstructure:"gold_strategy"`
	Predictions  string          `mapstructure:"predictions"`
	Workers      int             `mapstructure:"workers"`
	Output       string          `mapstructure:"output"`
	Format       string          `mapstructure:"format"`
	LogDir       string          `mapstructure:"log_dir"`
	LogFormat    string          `mapstructure:"log_format"`
	Provider     string          `mapstructure:"provider"`
	Label        string          `mapstructure:"label"`
	Normalize    NormalizeConfig `mapstructure:"normalize"`
	Model        ModelConfig     `mapstructure:"model"`
	Cache        CacheConfig     `mapstructure:"cache"`
	OpenAI       OpenAIConfig    `mapstructure:"openai"`
	Anthropic    AnthropicConfig `mapstructure:"anthropic"`
	Gemini       GeminiConfig    `mapstructure:"gemini"`
	Ollama       OllamaConfig    `mapstructure:"ollama"`
}

type NormalizeConfig struct {
	Threshold          float64  `mapstructure:"threshold"`
	AffirmativeMarkers []string `mapstructure:"affirmative_markers"`
	NegativeMarkers    []string `mapstructure:"negative_markers"`
}

type ModelConfig struct {
	Name         string `mapstructure:"name"`
	MockResponse string `mapstructure:"mock_response"`
}

type CacheConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Dir      string `mapstructure:"dir"`
	TTLHours int    `mapstructure:"ttl_hours"`
}

type OpenAIConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
}

type AnthropicConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
	MaxTokens      int    `mapstructure:"max_tokens"`
}

type GeminiConfig struct {
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
}

type OllamaConfig struct {
	Model          string `mapstructure:"model"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	BackoffMillis  int    `mapstructure:"backoff_millis"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".germseval")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
