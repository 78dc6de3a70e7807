package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the console service.
type Config struct {
	OrchestratorURL string
	ListenAddr      string
	StatsInterval   time.Duration
	HealthInterval  time.Duration
	UpstreamTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ConsulAddr      string
	Env             string
}

// Load reads environment variables and validates required settings.
func Load() (Config, error) {
	cfg := Config{
		OrchestratorURL: stringFromEnv("STUDIO_ORCHESTRATOR_URL", "http://localhost:7900"),
		ListenAddr:      stringFromEnv("STUDIO_LISTEN_ADDRESS", ":8080"),
		StatsInterval:   durationFromEnv("STUDIO_STATS_INTERVAL", 30*time.Second),
		HealthInterval:  durationFromEnv("STUDIO_HEALTH_INTERVAL", 15*time.Second),
		UpstreamTimeout: durationFromEnv("STUDIO_UPSTREAM_TIMEOUT", 8*time.Second),
		ReadTimeout:     durationFromEnv("STUDIO_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    durationFromEnv("STUDIO_WRITE_TIMEOUT", 10*time.Second),
		ConsulAddr:      stringFromEnv("CONSUL_HTTP_ADDR", ""),
		Env:             stringFromEnv("STUDIO_ENV", "development"),
	}

	if cfg.StatsInterval <= 0 {
		return Config{}, fmt.Errorf("STUDIO_STATS_INTERVAL must be > 0")
	}
	if cfg.HealthInterval <= 0 {
		return Config{}, fmt.Errorf("STUDIO_HEALTH_INTERVAL must be > 0")
	}

	parsed, err := url.Parse(cfg.OrchestratorURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("STUDIO_ORCHESTRATOR_URL must be a valid absolute URL")
	}
	cfg.OrchestratorURL = strings.TrimRight(parsed.String(), "/")

	return cfg, nil
}

func durationFromEnv(name string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err == nil {
		return parsed
	}

	// Accept plain integers as seconds for convenience (e.g. "30" => 30s).
	if seconds, parseErr := strconv.Atoi(value); parseErr == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	return fallback
}

func stringFromEnv(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}
