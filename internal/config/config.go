package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port    string
	DBPath  string
	BaseURL string

	// hh.ru API credentials. Token may be empty for anonymous access; the
	// user agent header is mandatory per API terms.
	Token     string
	UserAgent string

	// Vertical is the taxonomy subcluster whose leaf roles are ingested.
	Vertical string

	// Sweep geometry.
	Window      int64
	ChunkSize   int
	Concurrency int

	RetryAttempts int

	// ScrapeIntervalHours enables the periodic collector in serve mode when > 0.
	ScrapeIntervalHours int

	// RedisURL enables the swept-id cache when set.
	RedisURL string
}

func Load() Config {
	return Config{
		Port:                getEnv("PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "vacancies.db"),
		BaseURL:             getEnv("HH_BASE_URL", "https://api.hh.ru"),
		Token:               getEnv("HH_TOKEN", ""),
		UserAgent:           getEnv("HH_USER_AGENT", "vacancy-api/1.0"),
		Vertical:            getEnv("VERTICAL", "Информационные технологии"),
		Window:              int64(getEnvInt("SWEEP_WINDOW", 5000)),
		ChunkSize:           getEnvInt("CHUNK_SIZE", 1000),
		Concurrency:         getEnvInt("CONCURRENCY", 10),
		RetryAttempts:       getEnvInt("RETRY_ATTEMPTS", 3),
		ScrapeIntervalHours: getEnvInt("SCRAPE_INTERVAL_HOURS", 0),
		RedisURL:            getEnv("REDIS_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
