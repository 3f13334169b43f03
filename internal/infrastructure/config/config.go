package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth    AuthConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Dispute DisputeConfig
}

type AuthConfig struct {
	// Domain is the origin name embedded in the canonical sign-in message.
	Domain    string `env:"AUTH_DOMAIN,    default=marketplace.local"`
	Statement string `env:"AUTH_STATEMENT, default=Sign in to the marketplace. This request will not trigger a blockchain transaction."`
	// AdminWallets lists compressed public keys granted the admin role on
	// first sign-in.
	AdminWallets []string      `env:"AUTH_ADMIN_WALLETS"`
	NonceTTL     time.Duration `env:"AUTH_NONCE_TTL, default=5m"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL, default=24h"`
}

type SessionConfig struct {
	CookieName string `env:"SESSION_COOKIE_NAME, default=mkt_session"`
	// SealKey is the hex-encoded 32-byte key for the cookie cipher.
	SealKey string        `env:"SESSION_SEAL_KEY"`
	TTL     time.Duration `env:"SESSION_TTL, default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type DisputeConfig struct {
	// EvidencePublic opens evidence threads to any authenticated reader;
	// default restricts reads to participants and assigned jurors.
	EvidencePublic bool `env:"DISPUTE_EVIDENCE_PUBLIC, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
