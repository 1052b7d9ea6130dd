// Package config loads application configuration from a YAML file with
// environment variable overrides (prefix RESUME_PARSER, dots replaced by
// underscores, e.g. RESUME_PARSER_EMBEDDING_API_KEY).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Parser    ParserConfig    `mapstructure:"parser" yaml:"parser"`
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy" yaml:"taxonomy"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	MySQL     MySQLConfig     `mapstructure:"mysql" yaml:"mysql"`
	MinIO     MinIOConfig     `mapstructure:"minio" yaml:"minio"`
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address     string `mapstructure:"address" yaml:"address"`
	APIKey      string `mapstructure:"api_key" yaml:"api_key"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// LoggerConfig configures zerolog output.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	WithCaller bool   `mapstructure:"with_caller" yaml:"with_caller"`
}

// ParserConfig carries the extraction engine tunables.
type ParserConfig struct {
	Method              string  `mapstructure:"method" yaml:"method"`
	HeaderThreshold     float64 `mapstructure:"header_threshold" yaml:"header_threshold"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	TieEpsilon          float64 `mapstructure:"tie_epsilon" yaml:"tie_epsilon"`
	MinChunkChars       int     `mapstructure:"min_chunk_chars" yaml:"min_chunk_chars"`
	MaxChunkChars       int     `mapstructure:"max_chunk_chars" yaml:"max_chunk_chars"`
	MaxSkills           int     `mapstructure:"max_skills" yaml:"max_skills"`
}

// EmbeddingConfig configures the embedding endpoint. An empty APIKey
// disables the semantic path entirely.
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Model      string `mapstructure:"model" yaml:"model"`
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions"`
}

// TaxonomyConfig points at an optional vocabulary overlay file merged over
// the embedded defaults.
type TaxonomyConfig struct {
	OverlayPath string `mapstructure:"overlay_path" yaml:"overlay_path"`
}

// RedisConfig configures the parse result cache.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Address  string        `mapstructure:"address" yaml:"address"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// MySQLConfig configures parse record persistence.
type MySQLConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// MinIOConfig configures original-file archival.
type MinIOConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string  `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" yaml:"sampler_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_upload_mb", 16)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("parser.method", "rule")
	v.SetDefault("parser.header_threshold", 0.7)
	v.SetDefault("parser.confidence_threshold", 0.70)
	v.SetDefault("parser.tie_epsilon", 0.01)
	v.SetDefault("parser.min_chunk_chars", 40)
	v.SetDefault("parser.max_chunk_chars", 600)
	v.SetDefault("parser.max_skills", 25)
	v.SetDefault("embedding.model", "text-embedding-3-small")
	// Empty defaults so environment overrides bind during Unmarshal.
	v.SetDefault("server.api_key", "")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("taxonomy.overlay_path", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.cache_ttl", time.Hour)
	v.SetDefault("minio.bucket", "resume-uploads")
	v.SetDefault("tracing.service_name", "resume-parser")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sampler_ratio", 1.0)
}

// Load reads configuration. With a non-empty path the file must exist;
// otherwise config.yaml is searched in the working directory and ./configs,
// and a missing file means defaults plus environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("RESUME_PARSER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	switch c.Parser.Method {
	case "rule", "semantic", "both":
	default:
		return fmt.Errorf("parser.method %q must be rule, semantic or both", c.Parser.Method)
	}
	if c.Parser.HeaderThreshold <= 0 || c.Parser.HeaderThreshold > 1 {
		return fmt.Errorf("parser.header_threshold %v must be in (0,1]", c.Parser.HeaderThreshold)
	}
	if c.Parser.ConfidenceThreshold <= 0 || c.Parser.ConfidenceThreshold > 1 {
		return fmt.Errorf("parser.confidence_threshold %v must be in (0,1]", c.Parser.ConfidenceThreshold)
	}
	if c.Parser.TieEpsilon < 0 {
		return fmt.Errorf("parser.tie_epsilon %v must not be negative", c.Parser.TieEpsilon)
	}
	if c.Parser.MinChunkChars > 0 && c.Parser.MaxChunkChars > 0 &&
		c.Parser.MaxChunkChars <= c.Parser.MinChunkChars {
		return fmt.Errorf("parser.max_chunk_chars %d must exceed parser.min_chunk_chars %d",
			c.Parser.MaxChunkChars, c.Parser.MinChunkChars)
	}
	if c.MySQL.Enabled && c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required when mysql is enabled")
	}
	if c.MinIO.Enabled && c.MinIO.Endpoint == "" {
		return fmt.Errorf("minio.endpoint is required when minio is enabled")
	}
	return nil
}
