package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/value-parlay/internal/database"
)

// PostgresParameterRepository implements ParameterRepository for PostgreSQL
type PostgresParameterRepository struct {
	db *database.DB
}

// NewPostgresParameterRepository creates a new parameter repository
func NewPostgresParameterRepository(db *database.DB) ParameterRepository {
	return &PostgresParameterRepository{db: db}
}

// GetAll returns every stored parameter as a key-value map
func (r *PostgresParameterRepository) GetAll(ctx context.Context) (map[string]string, error) {
	query := `SELECT key, value FROM parameters`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	params := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		params[key] = value
	}

	return params, rows.Err()
}

// Set stores or replaces a parameter
func (r *PostgresParameterRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO parameters (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set parameter: %w", err)
	}
	return nil
}
