package stats

import (
	"context"
	"database/sql"
)

type Summary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	// 数据访问层封装
	return &Store{db: db}
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	// 汇总 todo 完成情况
	var summary Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed
		FROM todos
	`)
	if err := row.Scan(&summary.Total, &summary.Completed); err != nil {
		return Summary{}, err
	}
	summary.Pending = summary.Total - summary.Completed
	return summary, nil
}
