package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	Twilio  TwilioConfig  `mapstructure:"twilio"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ---- Leaf structs ----

// TwilioConfig holds the account credentials and the two call legs.
// None of the four env-sourced fields is validated here; the provider rejects bad values.
type TwilioConfig struct {
	AccountSID string        `mapstructure:"account_sid"`
	AuthToken  string        `mapstructure:"auth_token"`
	FromNumber string        `mapstructure:"from_number"`
	ToNumber   string        `mapstructure:"to_number"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"` // 0 = no client timeout
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// Prefixed overrides (MATCHACALL_*). The credential and number keys are left out:
// those come only from their unprefixed variables.
var prefixedKeys = []string{
	"twilio.base_url",
	"twilio.timeout",
	"log.level",
	"metrics.pushgateway_url",
	"metrics.job",
}

// Unprefixed variables the call reads directly.
var envBindings = map[string]string{
	"twilio.account_sid": "ACCOUNT_SID",
	"twilio.auth_token":  "AUTH_TOKEN",
	"twilio.from_number": "FROM_NUMBER",
	"twilio.to_number":   "TO_NUMBER",
}

// Load merges envFile (if it exists) into the process environment, then reads
// embedded defaults and applies env overrides: the four call variables, plus
// MATCHACALL_* for the settings in prefixedKeys.
// Variables already present in the environment are not overwritten by envFile.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	// env override (MATCHACALL_*)
	v.SetEnvPrefix("MATCHACALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range prefixedKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
