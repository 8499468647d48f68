package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App     AppConfig
	Discord DiscordConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	NLP     NLPConfig
	Logger  LoggerConfig
	Auth    AuthConfig
}

// AppConfig controls the admin HTTP server.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// DiscordConfig holds gateway credentials.
type DiscordConfig struct {
	Token string
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
	EnsureIndexes         bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	ServerTTLSecond int
}

// NLPConfig configures the Wit.ai client.
type NLPConfig struct {
	Token          string
	BaseURL        string
	APIVersion     string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin API authentication parameters.
type AuthConfig struct {
	JWTSecret string
}

// MissingEnvError reports a required variable that was not set.
type MissingEnvError struct {
	Key string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("expected a value in the environment %q", e.Key)
}

// Load reads configuration from environment variables, applying defaults where possible.
// DISCORD_TOKEN, WITAI_TOKEN and DB_NAME are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	discordToken, err := requireEnv("DISCORD_TOKEN")
	if err != nil {
		return nil, err
	}
	witToken, err := requireEnv("WITAI_TOKEN")
	if err != nil {
		return nil, err
	}
	dbName, err := requireEnv("DB_NAME")
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticketbot"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Discord: DiscordConfig{
			Token: discordToken,
		},
		Mongo: MongoConfig{
			URI:                   getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:              dbName,
			ConnectTimeoutSeconds: getEnvAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
			EnsureIndexes:         getEnvAsBool("MONGO_ENSURE_INDEXES", true),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              redisDB,
			ServerTTLSecond: getEnvAsInt("SERVER_CACHE_TTL_SECONDS", 300),
		},
		NLP: NLPConfig{
			Token:          witToken,
			BaseURL:        getEnv("WITAI_BASE_URL", "https://api.wit.ai"),
			APIVersion:     getEnv("WITAI_API_VERSION", "20240304"),
			TimeoutSeconds: getEnvAsInt("WITAI_TIMEOUT_SECONDS", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: loadAuth(),
	}

	return cfg, nil
}

// LoadAuth reads only the admin token settings. Tooling that signs tokens
// uses it so the bot credentials need not be present.
func LoadAuth() AuthConfig {
	_ = godotenv.Load()
	return loadAuth()
}

func loadAuth() AuthConfig {
	return AuthConfig{JWTSecret: os.Getenv("ADMIN_JWT_SECRET")}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// ConnectTimeout returns the Mongo connect timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	return seconds(m.ConnectTimeoutSeconds)
}

// ServerTTL returns how long cached server configs live.
func (r RedisConfig) ServerTTL() time.Duration {
	return seconds(r.ServerTTLSecond)
}

// Timeout returns the NLP request timeout.
func (n NLPConfig) Timeout() time.Duration {
	return seconds(n.TimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", &MissingEnvError{Key: key}
	}
	return val, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
