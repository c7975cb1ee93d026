package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig points the client at the chatbot server.
type ServerConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	SessionID   string `yaml:"session_id"`
}

// Timeout is zero unless configured, so requests may wait indefinitely.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// ChatConfig selects the chat panel variant.
type ChatConfig struct {
	Variant string `yaml:"variant"`
}

// UploadConfig configures file selection and the folder watcher.
type UploadConfig struct {
	Extensions []string `yaml:"extensions"`
	DebounceMS int      `yaml:"debounce_ms"`
}

// LogConfig configures where the TUI writes its log.
type LogConfig struct {
	File string `yaml:"file"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
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

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// RedisConfig holds connection details for the redis history store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// HistoryConfig selects where chat turns are kept.
type HistoryConfig struct {
	Type  string       `yaml:"type"`
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// BackendConfig configures the reference server started by "ragchat serve".
type BackendConfig struct {
	Addr        string            `yaml:"addr"`
	UploadDir   string            `yaml:"upload_dir"`
	TopK        int               `yaml:"top_k"`
	GinMode     string            `yaml:"gin_mode"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	History     HistoryConfig     `yaml:"history"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Chat    ChatConfig    `yaml:"chat"`
	Upload  UploadConfig  `yaml:"upload"`
	Log     LogConfig     `yaml:"log"`
	Backend BackendConfig `yaml:"backend"`
}

const (
	VariantText  = "text"
	VariantImage = "image"
)

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragchat/config.yaml and returns them.
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
	applyEnv(cfg)
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

// DefaultLogPath is where the TUI logs when log.file is unset.
func DefaultLogPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "ragchat.log"
	}
	return filepath.Join(dir, "ragchat", "ragchat.log")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragchat", "config.yaml"), nil
}

func defaultExtensions() []string {
	return []string{".pdf", ".docx", ".pptx", ".txt", ".md", ".csv", ".png", ".jpg", ".jpeg", ".gif"}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{BaseURL: "http://localhost:5000"},
		Chat:   ChatConfig{Variant: VariantImage},
		Upload: UploadConfig{Extensions: defaultExtensions(), DebounceMS: 500},
		Backend: BackendConfig{
			Addr:        ":5000",
			UploadDir:   "uploads",
			TopK:        4,
			GinMode:     "release",
			Embedder:    EmbedderConfig{Type: "tfidf"},
			Chunker:     ChunkerConfig{Type: "sentence", SentencesPerChunk: 5, OverlapSentences: 1},
			VectorStore: VectorStoreConfig{Type: "memory"},
			Summarizer:  SummarizerConfig{Type: "frequency", MaxSentences: 5},
			History:     HistoryConfig{Type: "memory"},
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = def.Server.BaseURL
	}
	if cfg.Chat.Variant == "" {
		cfg.Chat.Variant = def.Chat.Variant
	}
	if len(cfg.Upload.Extensions) == 0 {
		cfg.Upload.Extensions = def.Upload.Extensions
	}
	if cfg.Upload.DebounceMS == 0 {
		cfg.Upload.DebounceMS = def.Upload.DebounceMS
	}
	b := &cfg.Backend
	if b.Addr == "" {
		b.Addr = def.Backend.Addr
	}
	if b.UploadDir == "" {
		b.UploadDir = def.Backend.UploadDir
	}
	if b.TopK == 0 {
		b.TopK = def.Backend.TopK
	}
	if b.GinMode == "" {
		b.GinMode = def.Backend.GinMode
	}
	if b.Chunker.SentencesPerChunk == 0 {
		b.Chunker.SentencesPerChunk = 5
	}
	if b.Summarizer.MaxSentences == 0 {
		b.Summarizer.MaxSentences = 5
	}
	if b.Embedder.Type == "openai" && b.Embedder.OpenAI != nil {
		if b.Embedder.OpenAI.BaseURL == "" {
			b.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if b.Embedder.OpenAI.APIKeyEnv == "" {
			b.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if b.Embedder.OpenAI.Model == "" {
			b.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if b.Embedder.OpenAI.TimeoutSecs == 0 {
			b.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if b.VectorStore.Type == "qdrant" && b.VectorStore.Qdrant != nil && b.VectorStore.Qdrant.Collection == "" {
		b.VectorStore.Qdrant.Collection = "documents"
	}
	if b.History.Type == "redis" && b.History.Redis != nil {
		if b.History.Redis.Addr == "" {
			b.History.Redis.Addr = "localhost:6379"
		}
		if b.History.Redis.TTLSecs == 0 {
			b.History.Redis.TTLSecs = 24 * 60 * 60
		}
	}
}

// applyEnv lets the environment (usually filled from .env) override the file.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("RAGCHAT_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("RAGCHAT_SESSION_ID"); v != "" {
		cfg.Server.SessionID = v
	}
	if v := os.Getenv("RAGCHAT_ADDR"); v != "" {
		cfg.Backend.Addr = v
	}
}
