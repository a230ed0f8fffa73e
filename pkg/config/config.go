package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable this module reads.
const EnvPrefix = "ameriduka"

type Config struct {
	App      AppConfig
	API      APIConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("AMERIDUKA_API_BASE_URL is required")
	}
	return &cfg, nil
}

type AppConfig struct {
	LogLevel string `envconfig:"AMERIDUKA_LOG_LEVEL" default:"info"`
}

type APIConfig struct {
	BaseURL string        `envconfig:"AMERIDUKA_API_BASE_URL" default:"http://localhost:8000/api"`
	Timeout time.Duration `envconfig:"AMERIDUKA_API_TIMEOUT" default:"15s"`
	// Token resumes an authenticated session; `duka login` prints one.
	Token string `envconfig:"AMERIDUKA_API_TOKEN"`
}

type CheckoutConfig struct {
	DefaultCurrency string `envconfig:"AMERIDUKA_DEFAULT_CURRENCY" default:"KES"`
	DefaultCountry  string `envconfig:"AMERIDUKA_DEFAULT_COUNTRY" default:"Kenya"`
	// OriginURL is the base the payment provider redirects back to.
	OriginURL string `envconfig:"AMERIDUKA_ORIGIN_URL" default:"http://localhost:3000"`
}
