package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	LiveKit LiveKitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=consultation_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// LiveKitConfig holds the media-service credentials. All of APIKey,
// APISecret and WSURL must be set before call sessions can be started.
type LiveKitConfig struct {
	APIKey    string        `env:"LIVEKIT_API_KEY"`
	APISecret string        `env:"LIVEKIT_API_SECRET"`
	WSURL     string        `env:"LIVEKIT_WS_URL"`
	TokenTTL  time.Duration `env:"LIVEKIT_TOKEN_TTL, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
