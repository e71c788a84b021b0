package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// mariadbSnapshotRepository implements SnapshotRepository on the
// archive_snapshots table (see db/migrations). One row per snapshot key,
// upserted on save. Selected with STORAGE_BACKEND=mariadb for deployments
// where Redis persistence is not configured durably.
type mariadbSnapshotRepository struct {
	db *sql.DB
}

// NewMariaDBSnapshotRepository creates a snapshot repository backed by the
// given DB pool.
func NewMariaDBSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &mariadbSnapshotRepository{db: db}
}

// Load reads one snapshot payload. A missing row is not an error.
func (r *mariadbSnapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT payload FROM archive_snapshots WHERE snapshot_name = ?`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot %q: %w", key, err)
	}
	return payload, nil
}

// Save upserts one snapshot payload using INSERT ... ON DUPLICATE KEY UPDATE.
func (r *mariadbSnapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	query := `INSERT INTO archive_snapshots (snapshot_name, payload)
	          VALUES (?, ?)
	          ON DUPLICATE KEY UPDATE payload = VALUES(payload)`

	if _, err := r.db.ExecContext(ctx, query, key, payload); err != nil {
		return fmt.Errorf("upserting snapshot %q: %w", key, err)
	}
	return nil
}

// SaveAll upserts several snapshots within a single transaction.
func (r *mariadbSnapshotRepository) SaveAll(ctx context.Context, payloads map[string][]byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning snapshot tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO archive_snapshots (snapshot_name, payload)
	          VALUES (?, ?)
	          ON DUPLICATE KEY UPDATE payload = VALUES(payload)`

	for key, payload := range payloads {
		if _, err := tx.ExecContext(ctx, query, key, payload); err != nil {
			return fmt.Errorf("upserting snapshot %q: %w", key, err)
		}
	}

	return tx.Commit()
}
