package sqlxrepos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE form_schemas (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL UNIQUE,
		document   BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func TestSchemaRepository_GetSchema(t *testing.T) {
	db := newTestDB(t)
	repo := NewSchemaRepository(db)
	ctx := context.Background()

	doc := schema.Document{Sections: []schema.Section{
		{Title: "General", Fields: []schema.Field{
			{Key: "name", Label: "Name", Type: schema.Text, Options: []string{}},
		}},
	}}

	_, err := repo.GetSchema(ctx, schema.KindSurvey)
	assert.Equal(t, schema.ErrNotFound, err)

	// reads must go through a passed executor: a document saved in an open
	// transaction is only visible to a read running on that transaction
	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	saved, err := repo.SaveSchema(ctx, schema.KindSurvey, doc, tx)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := repo.GetSchema(ctx, schema.KindSurvey, tx)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "name", got.Sections[0].Fields[0].Key)

	require.NoError(t, tx.Rollback())

	// the rolled-back save never hit the pooled connection
	_, err = repo.GetSchema(ctx, schema.KindSurvey)
	assert.Equal(t, schema.ErrNotFound, err)
}
