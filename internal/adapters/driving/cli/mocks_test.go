package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/prdstore/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/prdstore/internal/core/domain"
	"github.com/custodia-labs/prdstore/internal/core/services"
)

// testSettings returns settings that keep everything in memory.
func testSettings(t *testing.T) *domain.Settings {
	t.Helper()
	s := domain.DefaultSettings()
	s.Storage.Backend = domain.StorageMemory
	s.Storage.Dir = t.TempDir()
	s.Search.Backend = domain.SearchNone
	s.Search.IndexDir = filepath.Join(t.TempDir(), "index")
	return &s
}

// setupTestServices injects services built from settings and restores the
// package state when the test ends.
func setupTestServices(t *testing.T, settings *domain.Settings) *application {
	t.Helper()
	a, err := newApplication(context.Background(), settings)
	require.NoError(t, err)

	origSettings, origApp, origFile := settingsService, app, configFile
	settingsService = services.NewSettingsService(memory.NewConfigStore(), t.TempDir())
	app = a
	configFile = "/tmp/prdstore-test/config.toml"

	t.Cleanup(func() {
		require.NoError(t, a.Close())
		settingsService, app, configFile = origSettings, origApp, origFile
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return a
}

// resetFlags returns every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs rootCmd with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
