// Package config loads service settings with viper: defaults, then
// configs/config.yml, then SPRINT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "SPRINT"

type Config struct {
	Port string    `mapstructure:"port"`
	Log  LogConfig `mapstructure:"log"`
	DB   DBConfig  `mapstructure:"db"`

	Beacon BeaconConfig `mapstructure:"beacon"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Demo   DemoConfig   `mapstructure:"demo"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type BeaconConfig struct {
	// Address is connected to at startup when set.
	Address        string `mapstructure:"address"`
	Demo           bool   `mapstructure:"demo"`
	GraceMs        int    `mapstructure:"grace_ms"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	MTU            int    `mapstructure:"mtu"`
	ScanTimeoutMs  int    `mapstructure:"scan_timeout_ms"`
}

func (b BeaconConfig) Grace() time.Duration        { return time.Duration(b.GraceMs) * time.Millisecond }
func (b BeaconConfig) PollInterval() time.Duration { return time.Duration(b.PollIntervalMs) * time.Millisecond }
func (b BeaconConfig) ScanTimeout() time.Duration  { return time.Duration(b.ScanTimeoutMs) * time.Millisecond }

type MQTTConfig struct {
	// Broker empty disables publishing.
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// DemoConfig shapes the simulated beacon.
type DemoConfig struct {
	TickMs        int `mapstructure:"tick_ms"`
	SprintMs      int `mapstructure:"sprint_ms"`
	ArmDelayMs    int `mapstructure:"arm_delay_ms"`
	ReportDelayMs int `mapstructure:"report_delay_ms"`
	RangeCm       int `mapstructure:"range_cm"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "sprint.db")

	v.SetDefault("beacon.address", "")
	v.SetDefault("beacon.demo", false)
	v.SetDefault("beacon.grace_ms", 250)
	v.SetDefault("beacon.poll_interval_ms", 800)
	v.SetDefault("beacon.mtu", 247)
	v.SetDefault("beacon.scan_timeout_ms", 10000)

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "sprint-beacon")
	v.SetDefault("mqtt.topic_prefix", "sprint/beacon")

	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", "12h")

	v.SetDefault("demo.tick_ms", 200)
	v.SetDefault("demo.sprint_ms", 5000)
	v.SetDefault("demo.arm_delay_ms", 2000)
	v.SetDefault("demo.report_delay_ms", 100)
	v.SetDefault("demo.range_cm", 4572)
}

// Load reads config.yml from each path in order. A missing file is not an
// error; defaults and environment still apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Beacon.GraceMs <= 0 {
		errs = append(errs, fmt.Errorf("beacon.grace_ms must be positive, got %d", cfg.Beacon.GraceMs))
	}
	if cfg.Beacon.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("beacon.poll_interval_ms must be positive, got %d", cfg.Beacon.PollIntervalMs))
	}
	if cfg.Beacon.MTU < 23 || cfg.Beacon.MTU > 517 {
		errs = append(errs, fmt.Errorf("beacon.mtu must be within [23, 517], got %d", cfg.Beacon.MTU))
	}
	if cfg.Beacon.ScanTimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("beacon.scan_timeout_ms must not be negative, got %d", cfg.Beacon.ScanTimeoutMs))
	}
	if cfg.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", cfg.Auth.TokenTTL))
	}
	if cfg.Demo.RangeCm < 0 || cfg.Demo.RangeCm >= 0xFFFF {
		errs = append(errs, fmt.Errorf("demo.range_cm must be within [0, 65534], got %d", cfg.Demo.RangeCm))
	}
	return errors.Join(errs...)
}
