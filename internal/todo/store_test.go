package todo

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_api/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:", log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	return db
}

func seed(t *testing.T, store *Store, titles ...string) []Item {
	t.Helper()
	items := make([]Item, 0, len(titles))
	for _, title := range titles {
		item, err := store.Create(context.Background(), title)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func listAll(t *testing.T, store *Store, params ListParams) ([]Item, int64) {
	t.Helper()
	items, total, err := store.List(context.Background(), params.Normalize())
	require.NoError(t, err)
	return items, total
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	ctx := context.Background()

	created, err := store.Create(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.IsCompleted)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = store.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	ctx := context.Background()
	item := seed(t, store, "draft")[0]

	require.NoError(t, store.Update(ctx, item.ID, "final", true))

	got, err := store.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: item.ID, Title: "final", IsCompleted: true}, got)

	assert.ErrorIs(t, store.Update(ctx, 9999, "x", false), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	ctx := context.Background()
	item := seed(t, store, "temp")[0]

	require.NoError(t, store.Delete(ctx, item.ID))
	_, err := store.Get(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, item.ID), ErrNotFound)
}

func TestStoreListFilters(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	ctx := context.Background()
	items := seed(t, store, "Buy milk", "buy MILK powder", "Walk dog", "100% done", "under_score")
	require.NoError(t, store.Update(ctx, items[0].ID, "Buy milk", true))
	require.NoError(t, store.Update(ctx, items[2].ID, "Walk dog", true))

	got, total := listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "  Milk "})
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{items[0].ID, items[1].ID}, ids(got))

	got, total = listAll(t, store, ListParams{Page: 1, PageSize: 10, IsCompleted: boolPtr(true)})
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{items[0].ID, items[2].ID}, ids(got))

	got, total = listAll(t, store, ListParams{Page: 1, PageSize: 10, IsCompleted: boolPtr(false), Search: "milk"})
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{items[1].ID}, ids(got))

	// 通配符按字面匹配
	got, _ = listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "%"})
	assert.Equal(t, []int64{items[3].ID}, ids(got))
	got, _ = listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "_"})
	assert.Equal(t, []int64{items[4].ID}, ids(got))
}

func TestStoreListSearchNonASCII(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	items := seed(t, store, "Émile ödev", "Çay al", "emile notes")

	got, total := listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "Émile"})
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{items[0].ID}, ids(got))

	got, total = listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "Çay"})
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{items[1].ID}, ids(got))

	got, total = listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "ödev"})
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []int64{items[0].ID}, ids(got))

	// ASCII 部分仍然不区分大小写
	got, total = listAll(t, store, ListParams{Page: 1, PageSize: 10, Search: "MILE"})
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []int64{items[0].ID, items[2].ID}, ids(got))
}

func TestStoreListSorting(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	seed(t, store, "banana", "apple", "cherry", "apple")

	got, _ := listAll(t, store, ListParams{Page: 1, PageSize: 10, SortBy: "title", SortDir: "asc"})
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Title < got[j].Title }))
	assert.Equal(t, []string{"apple", "apple", "banana", "cherry"}, titles(got))

	got, _ = listAll(t, store, ListParams{Page: 1, PageSize: 10, SortBy: "title", SortDir: "desc"})
	assert.Equal(t, []string{"cherry", "banana", "apple", "apple"}, titles(got))

	got, _ = listAll(t, store, ListParams{Page: 1, PageSize: 10, SortBy: "id", SortDir: "asc"})
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))

	got, _ = listAll(t, store, ListParams{Page: 1, PageSize: 10, SortBy: "nonsense", SortDir: "up"})
	assert.Equal(t, []int64{4, 3, 2, 1}, ids(got))
}

func TestStoreListPagesCoverResultSet(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	seed(t, store, "d", "a", "c", "a", "b", "a", "e", "c", "b", "a", "f", "d", "a")

	for _, order := range []ListParams{
		{SortBy: "title", SortDir: "asc"},
		{SortBy: "title", SortDir: "desc"},
		{SortBy: "id", SortDir: "asc"},
		{SortBy: "id", SortDir: "desc"},
	} {
		full := order
		full.Page, full.PageSize = 1, 100
		want, total := listAll(t, store, full)
		require.Equal(t, int64(13), total)

		for _, size := range []int{1, 2, 3, 5, 13, 20} {
			var concatenated []Item
			pages := TotalPages(total, size)
			for page := 1; page <= pages; page++ {
				p := order
				p.Page, p.PageSize = page, size
				got, _ := listAll(t, store, p)
				concatenated = append(concatenated, got...)
			}
			assert.Equal(t, want, concatenated, "%s/%s size=%d", order.SortBy, order.SortDir, size)
		}
	}
}

func TestStoreListPageBeyondEnd(t *testing.T) {
	store := NewStore(setupTestDB(t), database.DriverSQLite)
	seed(t, store, "one", "two")

	got, total := listAll(t, store, ListParams{Page: 5, PageSize: 10})
	assert.Equal(t, int64(2), total)
	assert.Empty(t, got)
}

func TestStoreNullTitleFallsBackToEmpty(t *testing.T) {
	// 旧库里的 title 允许为 NULL
	db, err := database.Open(database.DriverSQLite, ":memory:", log.New(io.Discard))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE todos (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, is_completed BOOLEAN NOT NULL DEFAULT 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO todos (title) VALUES (NULL)`)
	require.NoError(t, err)

	store := NewStore(db, database.DriverSQLite)
	item, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "", item.Title)

	got, _ := listAll(t, store, ListParams{Page: 1, PageSize: 10})
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Title)
}

func ids(items []Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}
