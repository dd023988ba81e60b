package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type schemaRow struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Document  []byte    `db:"document"`
	UpdatedAt time.Time `db:"updated_at"`
}

type schemaRepository struct {
	db *sqlx.DB
}

var _ schema.Repository = (*schemaRepository)(nil) // interface compliance check

func NewSchemaRepository(db *sqlx.DB) *schemaRepository {
	return &schemaRepository{db: db}
}

func (repo schemaRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo schemaRepository) GetSchema(ctx context.Context, kind schema.Kind, exec ...core.DBExecutor) (schema.Document, error) {
	var row schemaRow
	query := repo.db.Rebind(`SELECT id, kind, document, updated_at FROM form_schemas WHERE kind = ?`)
	err := repo.getExec(exec).QueryRowContext(ctx, query, string(kind)).
		Scan(&row.ID, &row.Kind, &row.Document, &row.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return schema.Document{}, schema.ErrNotFound
		}
		return schema.Document{}, errors.Wrap(err, "finding schema")
	}

	doc, err := schema.DecodeDocument(kind, row.Document)
	if err != nil {
		return schema.Document{}, errors.Wrap(err, "decoding stored schema")
	}
	doc.ID = row.ID
	return doc, nil
}

// SaveSchema replaces the stored document for kind wholesale; the row is
// keyed on kind so repeated saves upsert.
func (repo schemaRepository) SaveSchema(ctx context.Context, kind schema.Kind, doc schema.Document, exec ...core.DBExecutor) (schema.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	data, err := schema.EncodeDocument(kind, doc)
	if err != nil {
		return schema.Document{}, errors.Wrap(err, "encoding schema")
	}

	// an existing row keeps its id
	query := repo.db.Rebind(`INSERT INTO form_schemas (id, kind, document, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (kind) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
		RETURNING id`)
	row := repo.getExec(exec).QueryRowContext(ctx, query, doc.ID, string(kind), data, time.Now().UTC())
	if err = row.Scan(&doc.ID); err != nil {
		return schema.Document{}, errors.Wrap(err, "saving schema")
	}
	return doc, nil
}
