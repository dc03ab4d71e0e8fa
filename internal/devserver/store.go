package devserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jacksmith/pcparts/internal/model"
)

var (
	errNotFound  = errors.New("part not found")
	errDuplicate = errors.New("A part with this ID already exists")
	errUnchanged = errors.New("data unchanged")
)

// Store is an in-memory parts collection. Parts keep insertion order.
type Store struct {
	mu    sync.RWMutex
	parts []model.Part
}

// NewStore returns a Store holding parts. Parts without a key get one.
func NewStore(parts ...model.Part) *Store {
	s := &Store{}
	for _, p := range parts {
		if p.Key == "" {
			p.Key = NewKey()
		}
		s.parts = append(s.parts, p)
	}
	return s
}

// NewKey returns a 24-character hex key shaped like a Mongo ObjectID.
func NewKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// All returns a copy of every part.
func (s *Store) All() []model.Part {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// ByID returns the part with the given business id.
func (s *Store) ByID(id string) (model.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.parts[i], nil
	}
	return model.Part{}, errNotFound
}

// Insert adds a part built from d and returns its new key.
func (s *Store) Insert(d model.Draft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexByID(d.ID) >= 0 {
		return "", errDuplicate
	}
	p := fromDraft(d)
	p.Key = NewKey()
	s.parts = append(s.parts, p)
	return p.Key, nil
}

// UpdateByKey replaces the fields of the part stored under key. Like the
// production service, writing identical data counts as no match.
func (s *Store) UpdateByKey(key string, d model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(s.indexByKey(key), d)
}

// UpdateByID replaces the fields of the part with business id id.
func (s *Store) UpdateByID(id string, d model.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(s.indexByID(id), d)
}

// DeleteByKey removes the part stored under key.
func (s *Store) DeleteByKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.indexByKey(key))
}

// DeleteByID removes the part with business id id.
func (s *Store) DeleteByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.indexByID(id))
}

func (s *Store) replace(i int, d model.Draft) error {
	if i < 0 {
		return errNotFound
	}
	p := fromDraft(d)
	p.Key = s.parts[i].Key
	if samePart(s.parts[i], p) {
		return errUnchanged
	}
	s.parts[i] = p
	return nil
}

func (s *Store) remove(i int) error {
	if i < 0 {
		return errNotFound
	}
	s.parts = append(s.parts[:i], s.parts[i+1:]...)
	return nil
}

func (s *Store) indexByID(id string) int {
	for i := range s.parts {
		if s.parts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByKey(key string) int {
	for i := range s.parts {
		if s.parts[i].Key == key {
			return i
		}
	}
	return -1
}

func fromDraft(d model.Draft) model.Part {
	return model.Part{
		ID:          d.ID,
		Name:        d.Name,
		Brand:       d.Brand,
		Price:       d.Price,
		Stock:       d.Stock,
		Description: d.Description,
	}
}

func samePart(a, b model.Part) bool {
	return a.ID == b.ID && a.Name == b.Name && a.Brand == b.Brand &&
		a.Price.Equal(b.Price) && a.Stock == b.Stock && a.Description == b.Description
}
