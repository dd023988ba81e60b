package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type schemaRepository struct {
	db *DB
}

var _ schema.Repository = (*schemaRepository)(nil)

func NewSchemaRepository(db *DB) *schemaRepository {
	return &schemaRepository{db: db}
}

func (repo *schemaRepository) GetSchema(_ context.Context, kind schema.Kind, _ ...core.DBExecutor) (schema.Document, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	data, ok := repo.db.schemas[kind]
	if !ok {
		return schema.Document{}, schema.ErrNotFound
	}
	doc, err := schema.DecodeDocument(kind, data)
	if err != nil {
		return schema.Document{}, err
	}
	doc.ID = repo.db.schemaIDs[kind]
	return doc, nil
}

func (repo *schemaRepository) SaveSchema(_ context.Context, kind schema.Kind, doc schema.Document, _ ...core.DBExecutor) (schema.Document, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if id, ok := repo.db.schemaIDs[kind]; ok {
		doc.ID = id
	} else if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	data, err := schema.EncodeDocument(kind, doc)
	if err != nil {
		return schema.Document{}, err
	}
	repo.db.schemas[kind] = data
	repo.db.schemaIDs[kind] = doc.ID
	return doc, nil
}
