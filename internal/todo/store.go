package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("todo not found")

type Store struct {
	db     *sql.DB
	driver string
}

func NewStore(db *sql.DB, driver string) *Store {
	// 数据访问层封装，driver 决定少数方言差异（如搜索用 LIKE 还是 ILIKE）
	return &Store{db: db, driver: driver}
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]Item, int64, error) {
	// 先统计过滤后的总数，再取当前页
	where, args := q.where(s.driver)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	pageArgs := append(args, q.PageSize, q.Offset())
	query := fmt.Sprintf(`
		SELECT id, COALESCE(title, ''), is_completed
		FROM todos
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, q.orderBy(), len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0, q.PageSize)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Title, &item.IsCompleted); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Item, error) {
	// 按 ID 查询
	var item Item
	row := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(title, ''), is_completed
		FROM todos
		WHERE id = $1
	`, id)
	if err := row.Scan(&item.ID, &item.Title, &item.IsCompleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, title string) (Item, error) {
	// 新建 todo，完成状态固定为 false
	var item Item
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO todos (title, is_completed)
		VALUES ($1, $2)
		RETURNING id, title, is_completed
	`, title, false)
	if err := row.Scan(&item.ID, &item.Title, &item.IsCompleted); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, id int64, title string, isCompleted bool) error {
	// 覆盖 title 和 is_completed，id 不变
	var updated int64
	row := s.db.QueryRowContext(ctx, `
		UPDATE todos
		SET title = $1,
			is_completed = $2
		WHERE id = $3
		RETURNING id
	`, title, isCompleted, id)
	if err := row.Scan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM todos
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
