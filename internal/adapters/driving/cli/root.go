// Package cli implements the prdstore command line.
//
// Commands share the services wired by the root command. Tests inject
// their own settingsService and app before executing rootCmd.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/config/file"
	"github.com/custodia-labs/prdstore/internal/core/ports/driving"
	"github.com/custodia-labs/prdstore/internal/core/services"
	"github.com/custodia-labs/prdstore/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	configPath string
	verbose    bool
)

var (
	settingsService driving.SettingsService
	configFile      string
	app             *application
)

var rootCmd = &cobra.Command{
	Use:   "prdstore",
	Short: "Store and search product requirement documents",
	Long: `prdstore stores PRDs as markdown plus a rendered HTML page, searches them,
and exposes store, search and get as tools to AI assistants.

Writes requested by an assistant wait for human confirmation unless
confirmation.required is false.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.prdstore/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeApp()

	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if settingsService == nil {
		svc, err := newSettingsService(configPath)
		if err != nil {
			return err
		}
		settingsService = svc
	}

	logger.SetVerbose(verbose)
	if !verbose {
		if settings, err := settingsService.Get(); err == nil && settings.Verbose {
			logger.SetVerbose(true)
		}
	}
	return nil
}

func newSettingsService(path string) (driving.SettingsService, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".prdstore")

	var store *file.ConfigStore
	if path != "" {
		store, err = file.NewConfigStoreAt(path)
	} else {
		store, err = file.NewConfigStore(dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	configFile = store.Path()
	return services.NewSettingsService(store, dataDir), nil
}

// requireApp returns the wired application, building it on first use.
func requireApp(cmd *cobra.Command) (*application, error) {
	if app != nil {
		return app, nil
	}
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	a, err := newApplication(cmd.Context(), settings)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

func closeApp() {
	if app == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Warn("close: %v", err)
	}
	app = nil
}
