package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
)

// Journal is the SQLite implementation of [memory.Persister]. Each accepted
// write replaces the rows of its subtree, so the table holds only the
// writes still needed to rebuild the tree, ordered by seq.
type Journal struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

var _ memory.Persister = (*Journal)(nil)

// NewJournal returns a journal over db. The schema must be migrated.
func NewJournal(db *DB, log *logger.Logger) *Journal {
	log = logger.OrNop(log)
	log.Debug().Msg("creating sqlite journal")
	return &Journal{db: db, logger: log, now: time.Now}
}

// Persist records writes in one transaction.
func (j *Journal) Persist(ctx context.Context, writes []memory.Write) error {
	log := logger.FromContext(ctx)
	if len(writes) == 0 {
		return nil
	}
	if j.db == nil || j.db.DB == nil {
		return ErrNilDB
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*Journal.Persist").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildNextSeqQuery()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var seq int64
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		log.Err(err).Str("func", "*Journal.Persist").Msg("failed to read next sequence")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	at := j.now()
	for i, w := range writes {
		path := remote.NormalizePath(w.Path)
		value := string(w.Value)
		if len(w.Value) == 0 {
			value = string(remote.Null())
		}

		query, args, err = buildDeleteSubtreeQuery(path)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*Journal.Persist").Str("path", path).Msg("failed to delete subtree rows")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		query, args, err = buildInsertNodeQuery(path, value, seq+int64(i), at)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*Journal.Persist").Str("path", path).Msg("failed to insert journal row")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*Journal.Persist").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// Load returns every journalled write in replay order.
func (j *Journal) Load(ctx context.Context) ([]memory.Write, error) {
	log := logger.FromContext(ctx)
	if j.db == nil || j.db.DB == nil {
		return nil, ErrNilDB
	}

	query, args, err := buildLoadQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*Journal.Load").Msg("failed to query journal")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var writes []memory.Write
	for rows.Next() {
		var (
			path  string
			value string
		)
		if err = rows.Scan(&path, &value); err != nil {
			log.Err(err).Str("func", "*Journal.Load").Msg("failed to scan journal row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		writes = append(writes, memory.Write{Path: path, Value: json.RawMessage(value)})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	j.logger.Debug().Int("writes", len(writes)).Msg("journal loaded")
	return writes, nil
}
