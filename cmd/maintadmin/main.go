// Command maintadmin is a terminal console for administering the
// maintenance reporting backend.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/nhle/maintenance-admin/internal/api"
	"github.com/nhle/maintenance-admin/internal/app"
	"github.com/nhle/maintenance-admin/internal/credential"
	"github.com/nhle/maintenance-admin/internal/model"
	"github.com/nhle/maintenance-admin/internal/store"
)

// journalKeep is how many journal entries survive the startup prune.
const journalKeep = 1000

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maintadmin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; the environment and config file still apply.
	_ = godotenv.Load()

	cfgPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}

	logFile, err := tea.LogToFile(filepath.Join(cfg.DataDir, "maintadmin.log"), "maintadmin")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	journal, err := store.NewSQLiteStore(filepath.Join(cfg.DataDir, "journal.db"))
	if err != nil {
		return err
	}
	defer journal.Close()
	if n, err := journal.PruneJournal(context.Background(), journalKeep); err != nil {
		log.Printf("pruning journal: %v", err)
	} else if n > 0 {
		log.Printf("pruned %d journal entries", n)
	}

	creds, err := credential.Open(cfg.DataDir)
	if err != nil {
		return err
	}

	// The program is created after the client, so the handler reaches it
	// through this variable.
	var p *tea.Program
	client := api.NewClient(cfg.API.BaseURL, creds,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithRateLimit(cfg.API.RequestsPerSec),
		api.WithUnauthorizedHandler(func() {
			if p != nil {
				p.Send(app.SessionExpiredMsg{})
			}
		}),
	)

	p = tea.NewProgram(app.New(app.Deps{
		API:        client,
		Tokens:     creds,
		Journal:    journal,
		Config:     cfg,
		ConfigPath: cfgPath,
	}), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
