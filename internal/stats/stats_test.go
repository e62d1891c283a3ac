package stats

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_api/internal/database"
)

func TestStatsSummary(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, ":memory:", log.New(io.Discard))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	router := NewHandler(NewStore(db), log.New(io.Discard)).Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var empty Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&empty))
	assert.Equal(t, Summary{}, empty)

	_, err = db.Exec(`INSERT INTO todos (title, is_completed) VALUES ('a', $1), ('b', $2), ('c', $3)`, true, false, true)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, Summary{Total: 3, Completed: 2, Pending: 1}, summary)
}
