package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flexprice/mgmt/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Management ManagementConfig `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required,oneof=local api"`
}

type ServerConfig struct {
	Address   string          `validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles the API; a zero RequestsPerSecond disables it
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"min=0"`
	Burst             int     `mapstructure:"burst" validate:"required_with=RequestsPerSecond,min=0"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required,oneof=debug info warn error"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mgmt")

	setDefaults(v)

	// Set up environment variables support
	v.SetEnvPrefix("MGMT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults mirrors GetDefaultConfig so a missing config file still
// yields a valid configuration
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.rate_limit.requests_per_second", d.Server.RateLimit.RequestsPerSecond)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("management.default_domain", d.Management.DefaultDomain)
	v.SetDefault("management.notifications_enabled", d.Management.NotificationsEnabled)
	v.SetDefault("management.notification_topic", d.Management.NotificationTopic)
	v.SetDefault("management.query_concurrency", d.Management.QueryConcurrency)
	v.SetDefault("management.notification_max_retries", d.Management.NotificationMaxRetries)
	v.SetDefault("management.notification_retry_interval", d.Management.NotificationRetryInterval)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Management: ManagementConfig{
			DefaultDomain:        DefaultDomain,
			NotificationsEnabled: true,
			NotificationTopic:    DefaultNotificationTopic,
			QueryConcurrency:     DefaultQueryConcurrency,

			NotificationMaxRetries:    DefaultNotificationMaxRetries,
			NotificationRetryInterval: DefaultNotificationRetryInterval,
		},
	}
}
