package sqlitecache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

// Store persists in-progress form answers in a local sqlite file so a
// session can resume after a crash. Entries are keyed by (kind, subject);
// the two form kinds never share an entry. The cache is advisory: any read
// failure degrades to an empty answer map.
type Store struct {
	db     *sql.DB
	logger core.Logger
}

var _ form.AnswerStore = (*Store)(nil)

func NewStore(conf *core.Config, logger core.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", conf.AnswerCachePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening answer cache")
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS answers (
		kind       TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		payload    BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (kind, subject_id)
	)`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing answer cache")
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Load(ctx context.Context, kind schema.Kind, subjectID string) form.AnswerMap {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM answers WHERE kind = ? AND subject_id = ?`,
		string(kind), subjectID,
	).Scan(&payload)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Warn(fmt.Sprintf("reading %s answer cache: %v", kind, err), err)
		}
		return form.AnswerMap{}
	}
	return form.DecodeAnswers(payload)
}

func (s *Store) Save(ctx context.Context, kind schema.Kind, subjectID string, answers form.AnswerMap) error {
	payload, err := form.EncodeAnswers(answers)
	if err != nil {
		return errors.Wrap(err, "encoding answers")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers (kind, subject_id, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (kind, subject_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(kind), subjectID, payload,
	)
	if err != nil {
		return errors.Wrap(err, "writing answer cache")
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, kind schema.Kind, subjectID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM answers WHERE kind = ? AND subject_id = ?`,
		string(kind), subjectID,
	)
	if err != nil {
		return errors.Wrap(err, "clearing answer cache")
	}
	return nil
}
