package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-campaign-mirror/internal/logger"
	"github.com/MKhiriev/go-campaign-mirror/internal/remote/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockJournal(t *testing.T) (*Journal, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	j := NewJournal(&DB{DB: db, logger: l}, l)
	j.now = func() time.Time { return time.Unix(1700000000, 0) }
	return j, mock
}

func TestJournal_PersistReplacesSubtree(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(seq\\), 0\\) \\+ 1 FROM nodes").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(7))
	mock.ExpectExec("DELETE FROM nodes WHERE \\(path = \\? OR substr\\(path, 1, \\?\\) = \\?\\)").
		WithArgs("/players/p1", sqlmock.AnyArg(), "/players/p1/").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO nodes \\(path,value,seq,updated_at\\)").
		WithArgs("/players/p1", `{"name":"a"}`, int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM nodes WHERE").
		WithArgs("/chat", sqlmock.AnyArg(), "/chat/").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO nodes").
		WithArgs("/chat", "null", int64(8), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := j.Persist(context.Background(), []memory.Write{
		{Path: "players/p1", Value: json.RawMessage(`{"name":"a"}`)},
		{Path: "/chat"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_PersistRootClearsEverything(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec("DELETE FROM nodes").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec("INSERT INTO nodes").
		WithArgs("/", `{}`, int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := j.Persist(context.Background(), []memory.Write{{Path: "/", Value: json.RawMessage(`{}`)}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_PersistEmptyIsNoop(t *testing.T) {
	j, mock := newMockJournal(t)

	require.NoError(t, j.Persist(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestJournal_PersistErrors(t *testing.T) {
	dbErr := errors.New("disk full")

	tests := []struct {
		name   string
		setup  func(mock sqlmock.Sqlmock)
		target error
	}{
		{
			name: "begin",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(dbErr)
			},
			target: ErrBeginningTransaction,
		},
		{
			name: "next seq",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COALESCE").WillReturnError(dbErr)
				mock.ExpectRollback()
			},
			target: ErrExecutingQuery,
		},
		{
			name: "delete",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
				mock.ExpectExec("DELETE FROM nodes").WillReturnError(dbErr)
				mock.ExpectRollback()
			},
			target: ErrExecutingStatement,
		},
		{
			name: "insert",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
				mock.ExpectExec("DELETE FROM nodes").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO nodes").WillReturnError(dbErr)
				mock.ExpectRollback()
			},
			target: ErrExecutingStatement,
		},
		{
			name: "commit",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT COALESCE").WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
				mock.ExpectExec("DELETE FROM nodes").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO nodes").WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit().WillReturnError(dbErr)
			},
			target: ErrCommitingTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, mock := newMockJournal(t)
			tt.setup(mock)

			err := j.Persist(context.Background(), []memory.Write{{Path: "/a", Value: json.RawMessage(`1`)}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, dbErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestJournal_LoadOrdersBySeq(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectQuery("SELECT path, value FROM nodes ORDER BY seq ASC").
		WillReturnRows(sqlmock.NewRows([]string{"path", "value"}).
			AddRow("/players", `{"p1":{"name":"a"}}`).
			AddRow("/players/p1/name", `"b"`))

	writes, err := j.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, writes, 2)
	assert.Equal(t, "/players", writes[0].Path)
	assert.Equal(t, `"b"`, string(writes[1].Value))
}

func TestJournal_LoadQueryError(t *testing.T) {
	j, mock := newMockJournal(t)
	mock.ExpectQuery("SELECT path, value FROM nodes").WillReturnError(errors.New("locked"))

	_, err := j.Load(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestJournal_SQLiteRestoresStore(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "campaign.db")

	db, err := NewConnectSQLite(ctx, dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	s := memory.NewStore(nil, NewJournal(db, nil))
	require.NoError(t, s.Set(ctx, "/players/p1", map[string]any{"name": "one", "color": "#fff"}))
	require.NoError(t, s.Set(ctx, "/players/p1/name", "two"))
	require.NoError(t, s.Set(ctx, "/chat/m1", map[string]any{"content": "hi"}))
	require.NoError(t, s.Update(ctx, "/chat", map[string]any{"m2/content": "yo"}))
	require.NoError(t, s.Remove(ctx, "/chat/m1"))
	require.NoError(t, s.Close())
	require.NoError(t, db.Close())

	db, err = NewConnectSQLite(ctx, dsn, logger.Nop())
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	restored := memory.NewStore(nil, NewJournal(db, nil))
	defer restored.Close()
	require.NoError(t, restored.Restore(ctx))

	raw, err := restored.Get("/")
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":{"p1":{"name":"two","color":"#fff"}},"chat":{"m2":{"content":"yo"}}}`, string(raw))
}

func TestNewConnectSQLite_EmptyDSN(t *testing.T) {
	_, err := NewConnectSQLite(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestJournal_NilDB(t *testing.T) {
	j := NewJournal(nil, nil)

	err := j.Persist(context.Background(), []memory.Write{{Path: "/a", Value: json.RawMessage(`1`)}})
	assert.ErrorIs(t, err, ErrNilDB)

	_, err = j.Load(context.Background())
	assert.ErrorIs(t, err, ErrNilDB)
}
