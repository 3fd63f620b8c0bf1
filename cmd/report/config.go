package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	BotToken   string        `envconfig:"BOT_TOKEN" required:"true"`
	AppToken   string        `envconfig:"APP_TOKEN"`
	APIBaseURL string        `envconfig:"API_BASE_URL"`
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	// RESERVED_PREFIX must match the running bot or channels will double up
	Prefix   string `envconfig:"RESERVED_PREFIX" default:"coffeetalk_"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// REPORT_COLOURS enables colorized statuses for terminal readability
	Colours bool `envconfig:"REPORT_COLOURS" default:"true"`
	// DRY_RUN lists provisionable members without creating anything
	DryRun bool `envconfig:"DRY_RUN" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
