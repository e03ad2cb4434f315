// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GophDocs server.
//
// Fields:
//   - HTTPAddr: bind address for the JSON HTTP API.
//   - GRPCAddr: bind address for the gRPC API; empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty keeps documents in memory.
//   - S3Bucket: bucket for document ciphertext; empty keeps it in the database.
//   - S3Region, S3RootUser, S3RootPassword, S3BaseEndpoint: object storage
//     settings for AWS S3 or an S3-compatible backend such as MinIO.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	DatabaseDSN     string
	S3Bucket        string
	S3Region        string
	S3RootUser      string
	S3RootPassword  string
	S3BaseEndpoint  string
	ShutdownTimeout time.Duration
	LogLevel        string
}

// LoadDefaults populates Config with development defaults: documents in
// memory and no object storage.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.S3Region = "us-east-1"
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
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
