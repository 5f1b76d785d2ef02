package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/andresmejia3/rosterface/internal/types"
)

// Store mirrors the character image map into PostgreSQL.
type Store struct {
	conn *pgx.Conn
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Initialize schema (Auto-Migration)
	if err := initSchema(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	return &Store{conn: conn}, nil
}

// initSchema creates the map table if it doesn't exist (Auto-Migration).
func initSchema(ctx context.Context, conn *pgx.Conn) error {
	query := `
		CREATE TABLE IF NOT EXISTS character_image_map (
			character_id TEXT PRIMARY KEY,
			face_x INT NOT NULL CHECK (face_x >= 0),
			face_y INT NOT NULL CHECK (face_y >= 0),
			scale DOUBLE PRECISION NOT NULL CHECK (scale > 0),
			num_characters INT NOT NULL CHECK (num_characters >= 1),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		);
	`
	_, err := conn.Exec(ctx, query)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) {
	s.conn.Close(ctx)
}

// ReplaceMapping swaps the stored map for m in one transaction, matching
// the whole-file regeneration of the JS map.
func (s *Store) ReplaceMapping(ctx context.Context, m types.Mapping) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if _, err := tx.Exec(ctx, "DELETE FROM character_image_map WHERE NOT (character_id = ANY($1))", ids); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		e := m[id]
		batch.Queue(`
			INSERT INTO character_image_map (character_id, face_x, face_y, scale, num_characters, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (character_id) DO UPDATE SET
				face_x = EXCLUDED.face_x,
				face_y = EXCLUDED.face_y,
				scale = EXCLUDED.scale,
				num_characters = EXCLUDED.num_characters,
				updated_at = NOW()
		`, id, e.FaceCenter.X, e.FaceCenter.Y, float64(e.Scale), e.NumCharacters)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert entries: %w", err)
	}

	return tx.Commit(ctx)
}

// LoadMapping reads the stored map back.
func (s *Store) LoadMapping(ctx context.Context) (types.Mapping, error) {
	rows, err := s.conn.Query(ctx, "SELECT character_id, face_x, face_y, scale, num_characters FROM character_image_map")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := types.Mapping{}
	for rows.Next() {
		var id string
		var e types.CharacterEntry
		var scale float64
		if err := rows.Scan(&id, &e.FaceCenter.X, &e.FaceCenter.Y, &scale, &e.NumCharacters); err != nil {
			return nil, err
		}
		e.Scale = types.Scale(scale)
		m[id] = e
	}
	return m, rows.Err()
}

// LastUpdated returns the time of the most recent write, zero if the table is empty.
func (s *Store) LastUpdated(ctx context.Context) (time.Time, error) {
	var t *time.Time
	if err := s.conn.QueryRow(ctx, "SELECT MAX(updated_at) FROM character_image_map").Scan(&t); err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, nil
	}
	return *t, nil
}

// Reset drops the map table.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, "DROP TABLE IF EXISTS character_image_map CASCADE")
	return err
}
