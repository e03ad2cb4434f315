package config

import (
	"github.com/dmitrijs2005/gophdocs/internal/configx"
	"github.com/dmitrijs2005/gophdocs/internal/flagx"
	"github.com/dmitrijs2005/gophdocs/internal/timex"
)

// FileConfig is the on-disk form of Config, JSON or YAML. Durations may be
// written as "3s" or as integer nanoseconds.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	Transport           string         `json:"transport" yaml:"transport"`
	StoreDriver         string         `json:"store_driver" yaml:"store_driver"`
	DataDir             string         `json:"data_dir" yaml:"data_dir"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	RememberSecret      *bool          `json:"remember_secret" yaml:"remember_secret"`
}

// parseFile overlays cfg with the fields set in the config file.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := configx.DecodeFile(path, &fc); err != nil {
		return err
	}

	setString(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	setString(&cfg.Transport, fc.Transport)
	setString(&cfg.StoreDriver, fc.StoreDriver)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RememberSecret != nil {
		cfg.RememberSecret = *fc.RememberSecret
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
