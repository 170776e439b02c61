package config

import (
	"math/rand"
	"os"
	"strconv"
	"time"

	"LiveSketch/internal/realtime"
	"LiveSketch/internal/sampler"
)

const (
	DefaultAppID      = "110602490-sdxl-turbo-realtime"
	DefaultPrompt     = "masterpice, best quality, An in focus, cinematic shot of a bright bluebird sitting on a tree branch."
	DefaultCanvasSize = 512
	maxSeed           = 100000
)

type Config struct {
	Credentials string
	AppID       string
	TokenURL    string
	RealtimeURL string
	Prompt      string
	Seed        int
	Interval    time.Duration
	Throttle    time.Duration
	CanvasSize  int
}

// LoadFromEnv reads the configuration from the environment. A canvas size
// below one falls back to the default.
func LoadFromEnv() *Config {
	cfg := &Config{
		Credentials: getEnv("FAL_KEY", ""),
		AppID:       getEnv("FAL_APP_ID", DefaultAppID),
		TokenURL:    getEnv("FAL_TOKEN_URL", realtime.DefaultTokenURL),
		RealtimeURL: getEnv("FAL_REALTIME_URL", realtime.DefaultRealtimeURL),
		Prompt:      getEnv("SKETCH_PROMPT", DefaultPrompt),
		Seed:        getEnvAsInt("SKETCH_SEED", rand.Intn(maxSeed)),
		Interval:    getEnvAsDuration("SKETCH_INTERVAL", sampler.DefaultInterval),
		Throttle:    getEnvAsDuration("SKETCH_THROTTLE", realtime.DefaultThrottle),
		CanvasSize:  getEnvAsInt("SKETCH_CANVAS_SIZE", DefaultCanvasSize),
	}
	if cfg.CanvasSize < 1 {
		cfg.CanvasSize = DefaultCanvasSize
	}
	return cfg
}

// Online reports whether credentials were supplied for the realtime service.
func (c *Config) Online() bool {
	return c.Credentials != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
