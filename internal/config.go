package internal

import (
	"fmt"
	"strings"
	"time"

	"coffeetalk/domain"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN,required=true"`
	AppToken string `env:"APP_TOKEN,required=true"`

	ReservedPrefix  string `env:"RESERVED_PREFIX"`
	EnforcementMode string `env:"ENFORCEMENT_MODE"`

	APIBaseURL        string        `env:"API_BASE_URL"`
	APITimeout        time.Duration `env:"API_TIMEOUT,required=true"`
	BufferSize        int           `env:"BUFFER_SIZE,required=true"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,required=true"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	DebugPort      int    `env:"DEBUG_PORT"`
}

// Prefix returns the reserved channel prefix, defaulting when unset.
// A trailing underscore is enforced so suffix extraction stays well-defined.
func (c Config) Prefix() (string, error) {
	prefix := c.ReservedPrefix
	if prefix == "" {
		return domain.DefaultPrefix, nil
	}
	if !strings.HasSuffix(prefix, "_") {
		return "", fmt.Errorf("RESERVED_PREFIX must end with an underscore, got %q", prefix)
	}
	return prefix, nil
}

// Severity parses the enforcement mode, defaulting to warn-only.
func (c Config) Severity() (domain.Severity, error) {
	if c.EnforcementMode == "" {
		return domain.SeverityWarn, nil
	}
	severity, err := domain.ParseSeverity(c.EnforcementMode)
	if err != nil {
		return "", fmt.Errorf("invalid ENFORCEMENT_MODE: %w", err)
	}
	return severity, nil
}
