package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Search    SearchConfig
	Directory DirectoryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SearchConfig holds the user-search feature settings: the enabled flag,
// the minimum trust level for baseline eligibility, and the mapping from
// each filterable attribute to its configured user-field name.
type SearchConfig struct {
	Enabled         bool
	MinTrustLevel   int
	GenderField     string
	CountryField    string
	ListenField     string
	ShareField      string
	OptionsCacheTTL time.Duration
}

// DirectoryConfig governs the directory listing endpoint.
type DirectoryConfig struct {
	Enabled   bool
	PageSize  int
	PageLimit int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Search = SearchConfig{
		Enabled:         v.GetBool("USER_SEARCH_ENABLED"),
		MinTrustLevel:   v.GetInt("USER_SEARCH_MIN_TRUST_LEVEL"),
		GenderField:     v.GetString("USER_SEARCH_GENDER_FIELD"),
		CountryField:    v.GetString("USER_SEARCH_COUNTRY_FIELD"),
		ListenField:     v.GetString("USER_SEARCH_LISTEN_FIELD"),
		ShareField:      v.GetString("USER_SEARCH_SHARE_FIELD"),
		OptionsCacheTTL: parseDuration(v.GetString("USER_SEARCH_OPTIONS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Directory = DirectoryConfig{
		Enabled:   v.GetBool("ENABLE_USER_DIRECTORY"),
		PageSize:  v.GetInt("DIRECTORY_PAGE_SIZE"),
		PageLimit: v.GetInt("DIRECTORY_PAGE_LIMIT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "community")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("USER_SEARCH_ENABLED", true)
	v.SetDefault("USER_SEARCH_MIN_TRUST_LEVEL", 0)
	v.SetDefault("USER_SEARCH_GENDER_FIELD", "gender")
	v.SetDefault("USER_SEARCH_COUNTRY_FIELD", "country")
	v.SetDefault("USER_SEARCH_LISTEN_FIELD", "listen")
	v.SetDefault("USER_SEARCH_SHARE_FIELD", "share")
	v.SetDefault("USER_SEARCH_OPTIONS_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_USER_DIRECTORY", true)
	v.SetDefault("DIRECTORY_PAGE_SIZE", 50)
	v.SetDefault("DIRECTORY_PAGE_LIMIT", 50)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
