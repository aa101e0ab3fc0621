package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the gateway.
// It merges file defaults and environment overrides to support both local
// and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	BcryptCost int

	TokenTTL        time.Duration
	LockoutDuration time.Duration
	FailedThreshold int

	ProtectedAdmin string
	MaxAdmins      int64

	ListingServiceURL  string
	PurchaseServiceURL string
	PeerUsername       string
	PeerPassword       string
	PeerTimeout        time.Duration

	BreakerFailureThreshold int
	BreakerCoolDown         time.Duration
	BreakerHalfOpenTrials   int

	MaxDBConns int
}

// configFile mirrors the YAML schema used by configs/gateway.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Peers struct {
		ListingURL  string `yaml:"listing_url"`
		PurchaseURL string `yaml:"purchase_url"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
	} `yaml:"peers"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:               "gateway",
		HTTPPort:                8080,
		GRPCPort:                9090,
		BcryptCost:              12,
		TokenTTL:                10 * time.Hour,
		LockoutDuration:         15 * time.Minute,
		FailedThreshold:         5,
		ProtectedAdmin:          "admin",
		MaxAdmins:               3,
		ListingServiceURL:       "http://localhost:8081",
		PurchaseServiceURL:      "http://localhost:8082",
		PeerTimeout:             3 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerCoolDown:         10 * time.Second,
		BreakerHalfOpenTrials:   1,
		MaxDBConns:              20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Peers.ListingURL != "" {
			cfg.ListingServiceURL = f.Peers.ListingURL
		}
		if f.Peers.PurchaseURL != "" {
			cfg.PurchaseServiceURL = f.Peers.PurchaseURL
		}
		if f.Peers.Username != "" {
			cfg.PeerUsername = f.Peers.Username
		}
		if f.Peers.Password != "" {
			cfg.PeerPassword = f.Peers.Password
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.ProtectedAdmin = envOrDefault("PROTECTED_ADMIN_USERNAME", cfg.ProtectedAdmin)
	cfg.ListingServiceURL = envOrDefault("LISTING_SERVICE_URL", cfg.ListingServiceURL)
	cfg.PurchaseServiceURL = envOrDefault("PURCHASE_SERVICE_URL", cfg.PurchaseServiceURL)
	cfg.PeerUsername = envOrDefault("PEER_AUTH_USERNAME", cfg.PeerUsername)
	cfg.PeerPassword = envOrDefault("PEER_AUTH_PASSWORD", cfg.PeerPassword)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.MaxAdmins = int64(envInt("MAX_ADMIN_COUNT", int(cfg.MaxAdmins)))
	cfg.MaxDBConns = envInt("DB_MAX_CONNS", cfg.MaxDBConns)
	cfg.BreakerFailureThreshold = envInt("BREAKER_FAILURE_THRESHOLD", cfg.BreakerFailureThreshold)
	cfg.BreakerHalfOpenTrials = envInt("BREAKER_HALF_OPEN_TRIALS", cfg.BreakerHalfOpenTrials)

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.PeerTimeout = time.Duration(envInt("PEER_TIMEOUT_SECONDS", int(cfg.PeerTimeout.Seconds()))) * time.Second
	cfg.BreakerCoolDown = time.Duration(envInt("BREAKER_COOLDOWN_SECONDS", int(cfg.BreakerCoolDown.Seconds()))) * time.Second

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	if cfg.PeerUsername == "" || cfg.PeerPassword == "" {
		return Config{}, fmt.Errorf("missing PEER_AUTH_USERNAME or PEER_AUTH_PASSWORD")
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
