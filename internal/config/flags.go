package config

import (
	"flag"
	"os"
	"time"

	"github.com/graminsta/storysync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the story API (default from Config)
//	-r string   listen address of the local credential relay
//	-d string   path to the offline queue database file
//	-i int      online check interval in seconds
//	-w int      number of parallel sync workers
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-d", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the story API")
	fs.StringVar(&cfg.RelayAddr, "r", cfg.RelayAddr, "listen address of the credential relay")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the offline queue database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.SyncConcurrency, "w", cfg.SyncConcurrency, "number of parallel sync workers")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
