package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvOllamaServer    = "OLLAMA_SERVER"
	EnvOllamaChatModel = "OLLAMA_CHAT_MODEL"
	EnvDocumentsPath   = "TRAVELCHAT_DOCUMENTS"
	EnvServerPort      = "TRAVELCHAT_PORT"
	EnvLogLevel        = "TRAVELCHAT_LOG_LEVEL"
)

const (
	DefaultOllamaServer = "http://localhost:11434"
	DefaultChatModel    = "llama3"
	DefaultEmbedModel   = "all-minilm"
	DefaultTopK         = 3
	// MaxChatTimeoutSecs bounds the single external model attempt.
	MaxChatTimeoutSecs = 30
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// OllamaEmbedderConfig holds configuration for the Ollama embedder.
type OllamaEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text encoder implementation.
// Type "none" (or empty) disables embeddings and selects keyword ranking.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Ollama *OllamaEmbedderConfig `yaml:"ollama,omitempty"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// DocumentsConfig points at the travel corpus.
type DocumentsConfig struct {
	Path string `yaml:"path"`
}

// ChatConfig configures the external chat model and retrieval depth.
type ChatConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerURL   string `yaml:"server_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	TopK        int    `yaml:"top_k"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// LoggingConfig configures log level and outputs ("console", "file").
type LoggingConfig struct {
	Level  string   `yaml:"level"`
	Output []string `yaml:"output"`
	File   string   `yaml:"file"`
}

// SummarizerConfig selects and configures the corpus summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Documents   DocumentsConfig   `yaml:"documents"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Chat        ChatConfig        `yaml:"chat"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/travelchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/travelchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnvOverrides(cfg)
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "travelchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Documents:   DocumentsConfig{Path: "data/documents.json"},
		Embedder:    EmbedderConfig{Type: "none"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Chat: ChatConfig{
			Enabled:     true,
			ServerURL:   DefaultOllamaServer,
			Model:       DefaultChatModel,
			TimeoutSecs: MaxChatTimeoutSecs,
			TopK:        DefaultTopK,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5001,
			RateLimitPerSec: 5,
			RateLimitBurst:  10,
			AllowedOrigins:  []string{"http://localhost:5000", "http://127.0.0.1:5000"},
		},
		Logging:    LoggingConfig{Level: "info", Output: []string{"console"}},
		Summarizer: SummarizerConfig{Type: "frequency", MaxSentences: 2},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "none"
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.Chat.ServerURL == "" {
		cfg.Chat.ServerURL = DefaultOllamaServer
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = DefaultChatModel
	}
	if cfg.Chat.TimeoutSecs <= 0 || cfg.Chat.TimeoutSecs > MaxChatTimeoutSecs {
		cfg.Chat.TimeoutSecs = MaxChatTimeoutSecs
	}
	if cfg.Chat.TopK <= 0 {
		cfg.Chat.TopK = DefaultTopK
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Summarizer.MaxSentences <= 0 {
		cfg.Summarizer.MaxSentences = 2
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Embedder.Type == "ollama" {
		if cfg.Embedder.Ollama == nil {
			cfg.Embedder.Ollama = &OllamaEmbedderConfig{}
		}
		if cfg.Embedder.Ollama.BaseURL == "" {
			cfg.Embedder.Ollama.BaseURL = cfg.Chat.ServerURL
		}
		if cfg.Embedder.Ollama.Model == "" {
			cfg.Embedder.Ollama.Model = DefaultEmbedModel
		}
		if cfg.Embedder.Ollama.TimeoutSecs == 0 {
			cfg.Embedder.Ollama.TimeoutSecs = 30
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvOllamaServer)); v != "" {
		cfg.Chat.ServerURL = v
		if cfg.Embedder.Ollama != nil {
			cfg.Embedder.Ollama.BaseURL = v
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOllamaChatModel)); v != "" {
		cfg.Chat.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDocumentsPath)); v != "" {
		cfg.Documents.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvServerPort)); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
}
