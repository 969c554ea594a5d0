package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const nodesTable = "nodes"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildDeleteSubtreeQuery removes the journal rows for path and everything
// under it. The root clears the whole journal.
func buildDeleteSubtreeQuery(path string) (string, []any, error) {
	q := psql.Delete(nodesTable)
	if path != "/" {
		prefix := path + "/"
		q = q.Where(sq.Or{
			sq.Eq{"path": path},
			sq.Expr("substr(path, 1, ?) = ?", len(prefix), prefix),
		})
	}
	return q.ToSql()
}

func buildNextSeqQuery() (string, []any, error) {
	return psql.Select("COALESCE(MAX(seq), 0) + 1").From(nodesTable).ToSql()
}

func buildInsertNodeQuery(path, value string, seq int64, at time.Time) (string, []any, error) {
	return psql.Insert(nodesTable).
		Columns("path", "value", "seq", "updated_at").
		Values(path, value, seq, at.UTC()).
		ToSql()
}

func buildLoadQuery() (string, []any, error) {
	return psql.Select("path", "value").
		From(nodesTable).
		OrderBy("seq ASC").
		ToSql()
}
