package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App             AppConfig
	Server          ServerConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Analytics       AnalyticsConfig
	SearchIndex     SearchIndexConfig
	Personalization PersonalizationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	SecretKey string
}

type AnalyticsConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
}

type SearchIndexConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PersonalizationConfig carries the decay/session/experiment tuning knobs.
// Half-lives are configured in days. Purchases decay at half the brand rate
// (double the half-life); that value is derived, not configured.
type PersonalizationConfig struct {
	DecayEnabled             bool
	CategoryHalfLifeDays     float64
	BrandHalfLifeDays        float64
	ValueHalfLifeDays        float64
	PriceRangeHalfLifeDays   float64
	MaxPreferenceAgeDays     float64
	DecayBatchSize           int
	DecaySweepInterval       time.Duration
	PreferenceCacheTTL       time.Duration
	AssignmentCacheTTL       time.Duration
	SessionTTL               time.Duration
	SimilarityThreshold      float64
	MaxSimilarCategories     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Market Search Personalization API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "market_search"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisUsername: getEnv("REDIS_USERNAME", "default"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			DialTimeout:   getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:  getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:      getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:  getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Analytics: AnalyticsConfig{
			BaseURL:           getEnv("ANALYTICS_BASE_URL", ""),
			BasicAuthUsername: getEnv("ANALYTICS_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword: getEnv("ANALYTICS_BASIC_AUTH_PASSWORD", ""),
		},
		SearchIndex: SearchIndexConfig{
			BaseURL: getEnv("SEARCH_INDEX_BASE_URL", "http://localhost:9200"),
			Timeout: getEnvDuration("SEARCH_INDEX_TIMEOUT", 3*time.Second),
		},
		Personalization: PersonalizationConfig{
			DecayEnabled:           getEnvBool("DECAY_ENABLED", true),
			CategoryHalfLifeDays:   getEnvFloat("DECAY_CATEGORY_HALF_LIFE_DAYS", 30),
			BrandHalfLifeDays:      getEnvFloat("DECAY_BRAND_HALF_LIFE_DAYS", 45),
			ValueHalfLifeDays:      getEnvFloat("DECAY_VALUE_HALF_LIFE_DAYS", 60),
			PriceRangeHalfLifeDays: getEnvFloat("DECAY_PRICE_RANGE_HALF_LIFE_DAYS", 30),
			MaxPreferenceAgeDays:   getEnvFloat("MAX_PREFERENCE_AGE_DAYS", 180),
			DecayBatchSize:         getEnvInt("DECAY_BATCH_SIZE", 100),
			DecaySweepInterval:     getEnvDuration("DECAY_SWEEP_INTERVAL", 6*time.Hour),
			PreferenceCacheTTL:     getEnvDuration("PREFERENCE_CACHE_TTL", 5*time.Minute),
			AssignmentCacheTTL:     getEnvDuration("ASSIGNMENT_CACHE_TTL", 24*time.Hour),
			SessionTTL:             getEnvDuration("SESSION_TTL", 24*time.Hour),
			SimilarityThreshold:    getEnvFloat("SIMILARITY_THRESHOLD", 0.3),
			MaxSimilarCategories:   getEnvInt("MAX_SIMILAR_CATEGORIES", 3),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}

	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
