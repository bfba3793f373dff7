package postgresql

import (
	"context"
	"fmt"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/settings"
	"github.com/workzen-hrms/hrms-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetValues returns raw string values for the keys that exist.
func (r *settingsRepository) GetValues(ctx context.Context, keys []string) (map[string]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT setting_key, setting_value
		FROM system_settings
		WHERE setting_key = ANY($1)
	`

	rows, err := q.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[key] = value
	}

	return values, rows.Err()
}
