package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// BackendConfig points at the sales backend REST API this service
// fronts.
type BackendConfig struct {
	BaseURL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	// Secret is shared with the sales backend, which issues the tokens.
	Secret string
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

func Load() *Config {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_BASE_URL"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
	}
}
