package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration for the inspection server surface.
// Engine thresholds (entropy sample cap, decode timeout, pixel sampling cap,
// language sample size) are fixed constants in the extractor package and are
// deliberately not configurable.
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"file-inspect"`
	LogLevel    string `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"APP_LOG_ENCODING" envDefault:"console"`
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	MaxUploadBytes  int64         `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"104857600"`
	MultipartMemory int64         `env:"HTTP_MULTIPART_MEM_BYTES" envDefault:"33554432"`
	SessionTTL      time.Duration `env:"HTTP_SESSION_TTL" envDefault:"30m"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
