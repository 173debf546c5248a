package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-s string   session database path
//	-m string   storage mode (sqlite|memory)
//	-t int      request timeout in seconds
//	-l string   log level
//
// os.Args is filtered to the flags handled here using flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-m", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "session database path")
	fs.StringVar(&cfg.StorageMode, "m", cfg.StorageMode, "storage mode: sqlite or memory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	switch cfg.StorageMode {
	case StorageSQLite, StorageMemory:
	default:
		panic(fmt.Sprintf("unknown storage mode %q", cfg.StorageMode))
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
