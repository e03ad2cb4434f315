package config

import "time"

// Config holds runtime settings for the GophDocs client.
type Config struct {
	ServerEndpointAddr  string
	Transport           string
	StoreDriver         string
	DataDir             string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
	// RememberSecret keeps the open document's secret in the data
	// directory so the next run can reopen it.
	RememberSecret bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:8080"
	c.Transport = "http"
	c.StoreDriver = "sqlite"
	c.DataDir = "gophdocs-data"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 12 * time.Second
	c.LogLevel = "warn"
	c.RememberSecret = true
}

// LoadConfig applies defaults, then the config file named by -c/-config (if
// any), then command-line flags. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
