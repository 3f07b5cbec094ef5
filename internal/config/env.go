package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ytget/yt-queue/internal/engine"
)

// Environment variables
const (
	EnvEngine         = "YTQUEUE_ENGINE"
	EnvLogFile        = "YTQUEUE_LOG_FILE"
	EnvDebug          = "YTQUEUE_DEBUG"
	EnvListenAddr     = "YTQUEUE_ADDR"
	EnvOutputFolder   = "YTQUEUE_OUTPUT"
	EnvResolveTimeout = "YTQUEUE_RESOLVE_TIMEOUT"
)

// DefaultListenAddr is where serve listens unless YTQUEUE_ADDR is set
const DefaultListenAddr = "127.0.0.1:8765"

// Environment is process level configuration that does not belong in the
// user's preferences
type Environment struct {
	EngineCommand  string
	LogFile        string
	Debug          bool
	ListenAddr     string
	OutputFolder   string
	ResolveTimeout time.Duration
}

// LoadEnvironment reads the environment, after loading the given .env files
// (or ./.env when none are given). Existing variables are never overridden
// and a missing file is not an error.
func LoadEnvironment(files ...string) Environment {
	_ = godotenv.Load(files...)

	return Environment{
		EngineCommand:  os.Getenv(EnvEngine),
		LogFile:        os.Getenv(EnvLogFile),
		Debug:          getEnvBool(EnvDebug, false),
		ListenAddr:     getEnv(EnvListenAddr, DefaultListenAddr),
		OutputFolder:   os.Getenv(EnvOutputFolder),
		ResolveTimeout: getEnvDuration(EnvResolveTimeout, engine.DefaultResolveTimeout),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
