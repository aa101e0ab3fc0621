package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the listing service.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string

	// Peers lists the basic-auth credentials accepted from calling
	// services (the gateway and the purchase service).
	Peers []PeerCredential

	MaxDBConns int

	ShutdownGrace time.Duration
}

type PeerCredential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"dependencies"`
	Peers []PeerCredential `yaml:"peers"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:     "listing",
		HTTPPort:      8081,
		MaxDBConns:    20,
		ShutdownGrace: 10 * time.Second,
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
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if len(f.Peers) > 0 {
			cfg.Peers = f.Peers
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = envInt("DB_MAX_CONNS", cfg.MaxDBConns)

	// PEER_AUTH_USERNAME/PEER_AUTH_PASSWORD configure a single credential,
	// which covers the common deployment where every peer shares one.
	if u, p := os.Getenv("PEER_AUTH_USERNAME"), os.Getenv("PEER_AUTH_PASSWORD"); u != "" && p != "" {
		cfg.Peers = append(cfg.Peers, PeerCredential{Username: u, Password: p})
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if len(cfg.Peers) == 0 {
		return Config{}, fmt.Errorf("no peer credentials configured")
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
