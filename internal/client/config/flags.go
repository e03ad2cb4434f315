package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophdocs/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the document server
//	-t string   transport: http or grpc
//	-s string   local store driver: sqlite or badger
//	-d string   data directory of the local replica
//	-i int      online check interval (seconds)
//	-r int      request timeout (seconds)
//	-l string   log level
//	-k bool     keep the document secret on this device (-k=false to disable)
//
// Arguments the client does not know about are filtered out with
// flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-d", "-i", "-r", "-l", "-k"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport (http|grpc)")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "local store (sqlite|badger)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.RememberSecret, "k", cfg.RememberSecret, "keep the open document's secret on this device")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
