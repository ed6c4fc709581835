// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/softphys/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const frameTable = "frames"

var frameColumns = []string{
	"session_id", "frame", "pitch", "roll", "calibration",
	"settings", "morphs", "colliders", "recorded_at",
}

const sqlCreateFrames = `
        CREATE TABLE IF NOT EXISTS frames (
            session_id  TEXT NOT NULL,
            frame       BIGINT NOT NULL,
            pitch       DOUBLE PRECISION NOT NULL,
            roll        DOUBLE PRECISION NOT NULL,
            calibration TEXT NOT NULL,
            settings    JSONB NOT NULL,
            morphs      JSONB NOT NULL,
            colliders   JSONB NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (session_id, frame)
        );
    `

const sqlSelectFrames = `
        SELECT frame, pitch, roll, calibration, settings, morphs, colliders
        FROM frames
        WHERE session_id = $1
        ORDER BY frame ASC;
    `

// Store persists frame snapshots of simulation sessions in PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
	now  func() time.Time
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
		now:  time.Now,
	}, nil
}

// EnsureSchema creates the frames table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, sqlCreateFrames); err != nil {
		return fmt.Errorf("failed to create frames table: %w", err)
	}
	return nil
}

// PersistFrames copies a batch of snapshots for one session inside a single transaction.
func (s *Store) PersistFrames(ctx context.Context, sessionID string, frames []schemas.FrameSnapshot) error {
	if len(frames) == 0 {
		return nil
	}
	if sessionID == "" {
		return errors.New("session id is required")
	}

	rows := make([][]any, len(frames))
	recordedAt := s.now().UTC()
	for i, f := range frames {
		settings, err := encodeValues(f.Settings)
		if err != nil {
			return fmt.Errorf("encoding settings of frame %d: %w", f.Frame, err)
		}
		morphs, err := encodeValues(f.Morphs)
		if err != nil {
			return fmt.Errorf("encoding morphs of frame %d: %w", f.Frame, err)
		}
		colliders, err := encodeValues(f.Colliders)
		if err != nil {
			return fmt.Errorf("encoding colliders of frame %d: %w", f.Frame, err)
		}
		rows[i] = []any{
			sessionID, int64(f.Frame), f.Pitch, f.Roll, f.Calibration,
			settings, morphs, colliders, recordedAt,
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after a successful commit reports ErrTxClosed.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{frameTable}, frameColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy frames: %w", err)
	}
	if int(copyCount) != len(frames) {
		return fmt.Errorf("mismatch in copied frames count: expected %d, got %d", len(frames), copyCount)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debug("Persisted frames",
		zap.String("session_id", sessionID),
		zap.Int("count", len(frames)),
		zap.Uint64("last_frame", frames[len(frames)-1].Frame))
	return nil
}

// Frames returns every stored snapshot of a session in frame order.
func (s *Store) Frames(ctx context.Context, sessionID string) ([]schemas.FrameSnapshot, error) {
	rows, err := s.pool.Query(ctx, sqlSelectFrames, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var frames []schemas.FrameSnapshot
	for rows.Next() {
		var (
			f                           schemas.FrameSnapshot
			frame                       int64
			settings, morphs, colliders []byte
		)
		if err := rows.Scan(&frame, &f.Pitch, &f.Roll, &f.Calibration, &settings, &morphs, &colliders); err != nil {
			return nil, fmt.Errorf("failed to scan frame row: %w", err)
		}
		f.Frame = uint64(frame)
		if f.Settings, err = decodeValues(settings); err != nil {
			return nil, fmt.Errorf("decoding settings of frame %d: %w", frame, err)
		}
		if f.Morphs, err = decodeValues(morphs); err != nil {
			return nil, fmt.Errorf("decoding morphs of frame %d: %w", frame, err)
		}
		if f.Colliders, err = decodeValues(colliders); err != nil {
			return nil, fmt.Errorf("decoding colliders of frame %d: %w", frame, err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return frames, nil
}

// encodeValues never yields a JSON null so the NOT NULL columns always hold an object.
func encodeValues(m map[string]float64) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func decodeValues(raw []byte) (map[string]float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]float64{}, nil
	}
	var m map[string]float64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
