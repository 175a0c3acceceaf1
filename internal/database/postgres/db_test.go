package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/redmonkez12/visionise-api/internal/task"
)

// newOfflineDB builds a bun.DB for rendering queries. sql.Open does not
// connect, so no server is needed.
func newOfflineDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("postgres", "postgres://localhost/visionise?sslmode=disable")
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, pgdialect.New())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, ok := parseID(id.String())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	for _, bad := range []string{"", "42", "507f1f77bcf86cd799439011", "not-a-uuid"} {
		_, ok := parseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.False(t, isUniqueViolation(nil))
}

func TestSetColumn_OnlyPresentFields(t *testing.T) {
	db := newOfflineDB(t)

	title := "T"
	q := db.NewUpdate().
		Model((*projectRow)(nil)).
		Set("updated_at = ?", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).
		Where("id = ?", uuid.Nil)
	q = setColumn(q, "title", &title)
	q = setColumn(q, "description", (*string)(nil))

	query := q.String()
	assert.Contains(t, query, `"title" = 'T'`)
	assert.Contains(t, query, `updated_at = '2024-01-02 03:04:05`)
	assert.NotContains(t, query, "description")
}

func TestRows_ToModel(t *testing.T) {
	id := uuid.New()

	p := (&projectRow{ID: id, Title: "P"}).toModel()
	assert.Equal(t, id.String(), p.ID)
	assert.Equal(t, []string{}, p.Members)

	p = (&projectRow{ID: id, Members: []*memberRow{{UserID: "u1"}, {UserID: "u2"}}}).toModel()
	assert.Equal(t, []string{"u1", "u2"}, p.Members)

	tk := (&taskRow{ID: id, ProjectID: "p1", Progress: 12.5}).toModel()
	assert.Equal(t, task.Progress(12.5), tk.Progress)
	assert.Equal(t, "p1", tk.ProjectID)
}
