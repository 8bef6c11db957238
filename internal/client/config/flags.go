package config

import (
	"flag"
	"os"

	"github.com/MaxymDv/CloudDrive-System/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-o string   directory for downloaded files (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "base URL of the backend server")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for downloaded files")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
