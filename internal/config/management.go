package config

import "time"

const (
	// DefaultDomain is used for names registered without a domain
	DefaultDomain = "DefaultDomain"

	DefaultNotificationTopic = "mgmt.notifications"

	DefaultQueryConcurrency = 8

	DefaultNotificationMaxRetries    = 3
	DefaultNotificationRetryInterval = 100 * time.Millisecond
)

// ManagementConfig holds the settings of the management server
type ManagementConfig struct {
	DefaultDomain        string `mapstructure:"default_domain" validate:"required,excludesall=:*?0x2C="`
	NotificationsEnabled bool   `mapstructure:"notifications_enabled"`
	NotificationTopic    string `mapstructure:"notification_topic" validate:"required_if=NotificationsEnabled true"`
	// NotificationMaxRetries is how often a failed listener is retried before
	// the notification is moved to the poison topic
	NotificationMaxRetries    int           `mapstructure:"notification_max_retries" validate:"min=0"`
	NotificationRetryInterval time.Duration `mapstructure:"notification_retry_interval" validate:"gt=0"`
	// QueryConcurrency bounds the goroutines evaluating a query expression
	QueryConcurrency int `mapstructure:"query_concurrency" validate:"min=1"`
}

// PoisonTopic is where notifications no listener could handle end up
func (c ManagementConfig) PoisonTopic() string {
	return c.NotificationTopic + ".poison"
}
