package shareresult

import (
	"time"

	"pathfinder-workers/internal/common/config"
)

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Timeout      time.Duration `mapstructure:"timeout"`
	EmailEnabled bool          `mapstructure:"email_enabled"`
	SMSEnabled   bool          `mapstructure:"sms_enabled"`
	EmailSubject string        `mapstructure:"email_subject"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Timeout:      15 * time.Second,
		EmailSubject: "Your Pathfinder result",
	}
}

// ConfigFrom combines the worker section with the notification channels.
func ConfigFrom(w config.WorkerConfig, n config.NotificationConfig) *Config {
	c := DefaultConfig()
	c.Enabled = w.Enabled
	if w.Timeout > 0 {
		c.Timeout = config.GetDuration(w.Timeout)
	}
	c.EmailEnabled = n.Email.Enabled
	c.SMSEnabled = n.SMS.Enabled
	if n.Email.Subject != "" {
		c.EmailSubject = n.Email.Subject
	}
	return c
}
