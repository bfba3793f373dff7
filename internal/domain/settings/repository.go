package settings

import "context"

// SettingsRepository reads raw values from the system_settings table.
type SettingsRepository interface {
	// GetValues returns the raw string value for each key that exists.
	// Missing keys are absent from the map, never an error.
	GetValues(ctx context.Context, keys []string) (map[string]string, error)
}
