package inmemcache

import (
	"context"
	"sync"

	"github.com/jaymarkubaran15-svg/memotrace/core/form"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
)

type key struct {
	kind    schema.Kind
	subject string
}

// Store is the in-memory AnswerStore used in tests and local development.
type Store struct {
	mutex   sync.RWMutex
	entries map[key][]byte
}

var _ form.AnswerStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{entries: make(map[key][]byte)}
}

func (s *Store) Load(_ context.Context, kind schema.Kind, subjectID string) form.AnswerMap {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return form.DecodeAnswers(s.entries[key{kind, subjectID}])
}

func (s *Store) Save(_ context.Context, kind schema.Kind, subjectID string, answers form.AnswerMap) error {
	payload, err := form.EncodeAnswers(answers)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries[key{kind, subjectID}] = payload
	return nil
}

func (s *Store) Clear(_ context.Context, kind schema.Kind, subjectID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.entries, key{kind, subjectID})
	return nil
}
