// Package cli implements the interactive CloudDrive command-line client: a
// small REPL over the HTTP API with commands for account management, file
// upload and download, sharing, and deletion.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/MaxymDv/CloudDrive-System/internal/client/api"
	"github.com/MaxymDv/CloudDrive-System/internal/client/config"
)

type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerAddr),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.api.IsLoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return "(" + a.userName + ")"
}

func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to CloudDrive CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
