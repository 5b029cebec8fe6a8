// README: Config loader; .env via godotenv, TRIPWISE_* env and defaults via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"tripwise/internal/ai"
)

const (
	ProviderGemini = ai.ProviderGemini
	ProviderOpenAI = ai.ProviderOpenAI

	AuthFirebase = "firebase"
	AuthStatic   = "static"
)

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DBConfig struct {
	// Empty disables the monthly quota.
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type RedisConfig struct {
	// Empty keeps the place cache in-process only.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MapsConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`
}

type AIConfig struct {
	Provider      string  `mapstructure:"provider"`
	Model         string  `mapstructure:"model"`
	GeminiKey     string  `mapstructure:"gemini_key"`
	OpenAIKey     string  `mapstructure:"openai_key"`
	OpenAIBaseURL string  `mapstructure:"openai_base_url"`
	Temperature   float32 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
}

// ProviderConfig picks the key matching the selected provider.
func (c AIConfig) ProviderConfig() ai.ProviderConfig {
	key := c.GeminiKey
	if c.Provider == ProviderOpenAI {
		key = c.OpenAIKey
	}
	return ai.ProviderConfig{Provider: c.Provider, Model: c.Model, APIKey: key, BaseURL: c.OpenAIBaseURL}
}

type AgentConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MonthlyCalls int           `mapstructure:"monthly_calls"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	Mode string `mapstructure:"mode"`
	// Static mode accepts exactly one bearer token and maps it to StaticUID.
	StaticToken string `mapstructure:"static_token"`
	StaticUID   string `mapstructure:"static_uid"`
}

type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Maps     MapsConfig     `mapstructure:"maps"`
	AI       AIConfig       `mapstructure:"ai"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Log      LogConfig      `mapstructure:"log"`
}

var defaults = map[string]interface{}{
	"http.addr":                 ":8080",
	"http.shutdown_timeout":     "10s",
	"db.dsn":                    "",
	"db.max_conns":              10,
	"redis.addr":                "",
	"redis.password":            "",
	"redis.db":                  0,
	"maps.api_key":              "",
	"maps.language":             "en",
	"ai.provider":               ProviderGemini,
	"ai.model":                  "",
	"ai.gemini_key":             "",
	"ai.openai_key":             "",
	"ai.openai_base_url":        "",
	"ai.temperature":            0.7,
	"ai.max_tokens":             2048,
	"agent.timeout":             "60s",
	"agent.monthly_calls":       100,
	"cache.ttl":                 "168h",
	"auth.mode":                 AuthFirebase,
	"auth.static_token":         "",
	"auth.static_uid":           "",
	"firebase.project_id":       "",
	"firebase.credentials_file": "",
	"log.level":                 "info",
	"log.format":                "json",
}

// Provider keys are also read from the names their SDKs document.
var aliases = map[string]string{
	"maps.api_key":              "GOOGLE_MAPS_API_KEY",
	"ai.gemini_key":             "GEMINI_API_KEY",
	"ai.openai_key":             "OPENAI_API_KEY",
	"firebase.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
}

// Load reads .env (if present) and the environment. Every key maps to
// TRIPWISE_<GROUP>_<NAME>, e.g. TRIPWISE_AI_PROVIDER.
func Load() (Config, error) {
	loadDotEnv()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("tripwise")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, def := range defaults {
		v.SetDefault(key, def)
	}
	for key, env := range aliases {
		if err := v.BindEnv(key, "TRIPWISE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent provider key at once.
func (c Config) Validate() error {
	var errs []error
	if c.Maps.APIKey == "" {
		errs = append(errs, errors.New("TRIPWISE_MAPS_API_KEY (or GOOGLE_MAPS_API_KEY) is required"))
	}
	switch c.AI.Provider {
	case ProviderGemini:
		if c.AI.GeminiKey == "" {
			errs = append(errs, errors.New("TRIPWISE_AI_GEMINI_KEY (or GEMINI_API_KEY) is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if c.AI.OpenAIKey == "" {
			errs = append(errs, errors.New("TRIPWISE_AI_OPENAI_KEY (or OPENAI_API_KEY) is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ai provider %q", c.AI.Provider))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai temperature %.2f out of range [0, 2]", c.AI.Temperature))
	}
	if c.AI.MaxTokens <= 0 {
		errs = append(errs, errors.New("ai max tokens must be positive"))
	}
	if c.Agent.Timeout <= 0 {
		errs = append(errs, errors.New("agent timeout must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateServer adds the checks only the HTTP server needs.
func (c Config) ValidateServer() error {
	switch c.Auth.Mode {
	case AuthFirebase:
		if c.Firebase.ProjectID == "" {
			return errors.New("TRIPWISE_FIREBASE_PROJECT_ID is required for firebase auth")
		}
	case AuthStatic:
		if c.Auth.StaticToken == "" || c.Auth.StaticUID == "" {
			return errors.New("TRIPWISE_AUTH_STATIC_TOKEN and TRIPWISE_AUTH_STATIC_UID are required for static auth")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	return nil
}

// loadDotEnv loads the first .env found walking up from the working directory.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
