package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	StorageDriverFile  = "file"
	StorageDriverMySQL = "mysql"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	AI       AIConfig       `mapstructure:"ai"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Writing  WritingConfig  `mapstructure:"writing"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port            int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS            CORSConfig `mapstructure:"cors"`
	StaticDirectory string     `mapstructure:"static_directory"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=file mysql"`
	DataDirectory string `mapstructure:"data_directory" validate:"required_if=Driver file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

// AIConfig points at an OpenAI compatible chat completions endpoint.
type AIConfig struct {
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	APIKey           string        `mapstructure:"api_key"`
	Model            string        `mapstructure:"model" validate:"required"`
	Temperature      float64       `mapstructure:"temperature" validate:"min=0,max=2"`
	QuizTemperature  float64       `mapstructure:"quiz_temperature" validate:"min=0,max=2"`
	MaxTokens        int           `mapstructure:"max_tokens" validate:"min=1"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type QuizConfig struct {
	// FallbackFile overrides the embedded fallback question set when set.
	FallbackFile       string `mapstructure:"fallback_file" validate:"omitempty,file"`
	QuestionCount      int    `mapstructure:"question_count" validate:"min=1"`
	HistoryContextSize int    `mapstructure:"history_context_size" validate:"min=0"`
}

type WritingConfig struct {
	AIFeedback bool `mapstructure:"ai_feedback"`
}

type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret" validate:"required"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/langtutor")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

// Set overrides a single key after defaults and the config file, e.g. from a command line flag.
func (loader *ConfigLoader) Set(key string, value any) {
	loader.viper.Set(key, value)
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.static_directory", "")
	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.data_directory", "data")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "langtutor")
	v.SetDefault("database.username", "user")
	v.SetDefault("ai.base_url", "https://text.pollinations.ai/openai")
	v.SetDefault("ai.model", "openai")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.quiz_temperature", 0.8)
	v.SetDefault("ai.max_tokens", 2000)
	v.SetDefault("ai.max_retry_attempts", 0)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("quiz.fallback_file", "")
	v.SetDefault("quiz.question_count", 5)
	v.SetDefault("quiz.history_context_size", 10)
	v.SetDefault("writing.ai_feedback", false)
	v.SetDefault("auth.token_secret", "langtutor-development-secret")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	// Secrets are bound to environment variables only
	if err := v.BindEnv("ai.api_key", "AI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind AI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("ai.model", "AI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind AI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("auth.token_secret", "TOKEN_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind TOKEN_SECRET environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
