package config

import "os"

// Config holds the gateway's runtime settings, all sourced from the
// environment.
type Config struct {
	Port      string
	RedisAddr string
	Service   string
}

func LoadConfig() *Config {
	return &Config{
		Port:      getEnvOrDefault("PORT", "8085"),
		RedisAddr: getEnvOrDefault("REDIS_ADDR", ""),
		Service:   getEnvOrDefault("SERVICE_NAME", "realtime"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
