package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingAPIKey = errors.New("missing API key (set HADITHS_API_KEY or api_key)")

const (
	DefaultBaseURL  = "https://hadithapi.com/api"
	DefaultPageSize = 25
)

// Config holds application configuration loaded from files, .env and environment variables.
type Config struct {
	Env              string        `mapstructure:"env" validate:"required"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	APIKey           string        `mapstructure:"api_key"`
	PageSize         int           `mapstructure:"page_size" validate:"min=1,max=100"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"min=0"`
	RateLimit        float64       `mapstructure:"rate_limit" validate:"gt=0"`
	RateBurst        int           `mapstructure:"rate_burst" validate:"min=1"`
	LogFile          string        `mapstructure:"log_file"`
	ExportDir        string        `mapstructure:"export_dir"`
	TranslationLabel string        `mapstructure:"translation_label" validate:"required"`
}

// IsProduction reports whether logs should use the production encoder.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration. A non-empty path forces a specific config file;
// otherwise config.yaml is looked up in ./config and $HOME/.hadiths.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, so cobra flags can be bound beforehand.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	// A missing .env is fine: values may come straight from the environment.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".hadiths"))
		}
	}

	v.SetDefault("env", "local")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("timeout", "30s")
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("rate_burst", 5)
	v.SetDefault("translation_label", "Translation")
	v.SetDefault("export_dir", ".")
	if home != "" {
		v.SetDefault("log_file", filepath.Join(home, ".hadiths", "hadiths.log"))
	}

	v.SetEnvPrefix("hadiths")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound explicitly.
	_ = v.BindEnv("api_key")
	_ = v.BindEnv("log_file")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that an API key is present.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}
