// Package config loads runtime configuration for the GophDocs client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the document server
//	-t string   transport: http or grpc
//	-s string   local store: sqlite or badger
//	-d string   data directory
//	-i int      online status check interval (seconds)
//	-r int      request timeout (seconds)
//	-l string   log level
//	-k bool     keep the document secret in the data directory; -k=false
//	            keeps only the document id and forgets any stored secret
//
// # File schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:8080",
//	  "transport": "http",
//	  "store_driver": "sqlite",
//	  "data_dir": "gophdocs-data",
//	  "online_check_interval": "3s",
//	  "request_timeout": "12s",
//	  "log_level": "info",
//	  "remember_secret": false
//	}
package config
