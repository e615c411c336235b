package driving

import "github.com/custodia-labs/prdstore/internal/core/domain"

// SettingsService resolves process settings from configuration.
type SettingsService interface {
	// Get returns the resolved settings.
	Get() (*domain.Settings, error)

	// Set updates one configuration key.
	Set(key string, value string) error

	// Value returns the effective string value of one key.
	Value(key string) (string, bool)

	// Keys returns every recognised key.
	Keys() []string
}
