package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"projadm/internal/api"
	"projadm/internal/config"
	"projadm/internal/logging"
	"projadm/internal/mockdata"
	"projadm/internal/query"
	"projadm/internal/store"
	"projadm/internal/ui"
	"projadm/internal/ui/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	dataDir, err := cfg.DataPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
		os.Exit(1)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(dataDir, "projadm.log")
	}
	log, err := logging.New(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := store.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening settings store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := api.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, st, log)
	cache := query.NewCache(log)

	deps := &views.Deps{
		Client:   client,
		Cache:    cache,
		Mutator:  query.NewMutator(cache, log),
		Mock:     mockdata.NewStore(),
		Settings: st,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
		Log:      log,
	}

	p := tea.NewProgram(ui.NewApp(deps), tea.WithAltScreen())

	// A rejected session can surface on any request; the program is told
	// from outside the update loop.
	client.OnUnauthorized(func() {
		p.Send(ui.SessionExpiredMsg{})
	})

	log.Info("starting", zap.String("base_url", cfg.API.BaseURL))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
