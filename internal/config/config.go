package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server"`
	Database   DatabaseConfig   `mapstructure:"database" json:"database"`
	Auth       AuthConfig       `mapstructure:"auth" json:"auth"`
	Transcript TranscriptConfig `mapstructure:"transcript" json:"transcript"`
	Generation GenerationConfig `mapstructure:"generation" json:"generation"`
	Cache      CacheConfig      `mapstructure:"cache" json:"cache"`
	Locking    LockingConfig    `mapstructure:"locking" json:"locking"`
	Log        LogConfig        `mapstructure:"log" json:"log"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host" json:"host"`
	Port        int    `mapstructure:"port" json:"port"`
	CORSOrigins string `mapstructure:"cors_origins" json:"cors_origins"`
	// SummarizeRateLimit is the number of summarize calls allowed per minute
	// for a single identity or IP.
	SummarizeRateLimit int `mapstructure:"summarize_rate_limit" json:"summarize_rate_limit"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" json:"driver"` // "postgres" or "sqlite"
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	Database string `mapstructure:"database" json:"database"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode"`
	Path     string `mapstructure:"path" json:"path"` // sqlite file, ":memory:" allowed
}

type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret" json:"jwt_secret"`
	CookieName string `mapstructure:"cookie_name" json:"cookie_name"`
}

type TranscriptConfig struct {
	Languages     []string      `mapstructure:"languages" json:"languages"`
	WindowSeconds int           `mapstructure:"window_seconds" json:"window_seconds"`
	Timeout       time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries" json:"max_retries"`
}

type GenerationConfig struct {
	Backend           string        `mapstructure:"backend" json:"backend"` // "ollama", "hosted" or "openai"
	BaseURL           string        `mapstructure:"base_url" json:"base_url"`
	Model             string        `mapstructure:"model" json:"model"`
	APIKey            string        `mapstructure:"api_key" json:"api_key,omitempty"`
	Timeout           time.Duration `mapstructure:"timeout" json:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries" json:"max_retries"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" json:"requests_per_minute"`
	PromptTemplate    string        `mapstructure:"prompt_template" json:"prompt_template,omitempty"`
}

type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
	RedisURL string        `mapstructure:"redis_url" json:"redis_url,omitempty"`
}

type LockingConfig struct {
	Mode string `mapstructure:"mode" json:"mode"` // "memory" or "advisory"
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"` // "text" or "json"
}

// Load reads config.json (if any), the environment and an optional .env file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".youtools"))
	}

	return load(v)
}

// LoadFile reads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.summarize_rate_limit", 20)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "youtools")
	v.SetDefault("database.database", "youtools")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "youtools.db")

	v.SetDefault("auth.cookie_name", "access_token")

	v.SetDefault("transcript.languages", []string{"en"})
	v.SetDefault("transcript.window_seconds", 30)
	v.SetDefault("transcript.timeout", 20*time.Second)
	v.SetDefault("transcript.max_retries", 2)

	v.SetDefault("generation.backend", "ollama")
	// No base_url default: the ollama generator supplies its own, hosted needs one.
	v.SetDefault("generation.model", "llama3.2")
	v.SetDefault("generation.timeout", 5*time.Minute)
	v.SetDefault("generation.max_retries", 1)
	v.SetDefault("generation.requests_per_minute", 30)

	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("locking.mode", "memory")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("YOUTOOLS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by the deployment scripts
	_ = v.BindEnv("server.port", "YOUTOOLS_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.host", "YOUTOOLS_DATABASE_HOST", "POSTGRES_HOST")
	_ = v.BindEnv("database.port", "YOUTOOLS_DATABASE_PORT", "POSTGRES_PORT")
	_ = v.BindEnv("database.user", "YOUTOOLS_DATABASE_USER", "POSTGRES_USER")
	_ = v.BindEnv("database.password", "YOUTOOLS_DATABASE_PASSWORD", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.database", "YOUTOOLS_DATABASE_DATABASE", "POSTGRES_DB")
	_ = v.BindEnv("auth.jwt_secret", "YOUTOOLS_AUTH_JWT_SECRET", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("cache.redis_url", "YOUTOOLS_CACHE_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("generation.base_url", "YOUTOOLS_GENERATION_BASE_URL", "OLLAMA_HOST")
	_ = v.BindEnv("generation.api_key", "YOUTOOLS_GENERATION_API_KEY", "HF_API_TOKEN", "OPENAI_API_KEY")
}

// Validate checks the values that would otherwise fail late at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "postgres":
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Generation.Backend {
	case "ollama", "openai":
	case "hosted":
		if c.Generation.BaseURL == "" {
			return fmt.Errorf("generation.base_url is required for the hosted backend")
		}
	default:
		return fmt.Errorf("unsupported generation backend %q", c.Generation.Backend)
	}

	if c.Transcript.WindowSeconds <= 0 {
		return fmt.Errorf("transcript.window_seconds must be positive")
	}

	switch c.Locking.Mode {
	case "memory":
	case "advisory":
		if c.Database.Driver != "postgres" {
			return fmt.Errorf("advisory locking requires the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported locking mode %q", c.Locking.Mode)
	}

	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
