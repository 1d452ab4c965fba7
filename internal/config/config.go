// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL selects the Postgres score store. Empty keeps scores
	// in memory, which is fine for local runs.
	DatabaseURL string `koanf:"database_url"`

	// Sanity settings locate the roster dataset in the content lake.
	SanityProjectID  string `koanf:"sanity_project_id"`
	SanityDataset    string `koanf:"sanity_dataset"`
	SanityAPIVersion string `koanf:"sanity_api_version"`
	SanityUseCDN     bool   `koanf:"sanity_use_cdn"`

	// DirectoryBaseURL overrides the derived roster API host.
	DirectoryBaseURL string `koanf:"directory_base_url"`

	// DirectoryCacheTTLSeconds bounds how long a roster snapshot is reused.
	DirectoryCacheTTLSeconds int `koanf:"directory_cache_ttl_seconds"`

	// SlackWebhookURL is the secret incoming-webhook address. Empty
	// disables milestone delivery.
	SlackWebhookURL string `koanf:"slack_webhook_url"`

	// SiteURL is the public address the chat digest links back to.
	SiteURL string `koanf:"site_url"`

	// NotifyQueueSize bounds the in-memory milestone queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkers sets the number of delivery workers.
	NotifyWorkers int `koanf:"notify_workers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                 "info",
		Addr:                     ":8080",
		SanityDataset:            "production",
		SanityAPIVersion:         "2023-05-03",
		SanityUseCDN:             true,
		DirectoryCacheTTLSeconds: 300,
		SiteURL:                  "http://localhost:8080/",
		NotifyQueueSize:          1024,
		NotifyWorkers:            2,
	}
}
