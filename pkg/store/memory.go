package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(ctx context.Context, doc *Document) (*Document, error) {
	d := prepareNew(doc, s.now())
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(d.Owner, d.Name, "") {
		return nil, duplicateName(d.Owner, d.Name)
	}
	d.ID = uuid.NewString()
	s.docs[d.ID] = d
	return d.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return d.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, doc *Document) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.docs[doc.ID]
	if !ok {
		return nil, notFound(doc.ID)
	}
	if s.nameTaken(doc.Owner, doc.Name, doc.ID) {
		return nil, duplicateName(doc.Owner, doc.Name)
	}
	d := doc.Clone()
	d.CreatedAt = old.CreatedAt
	d.UpdatedAt = s.now()
	s.docs[d.ID] = d
	return d.Clone(), nil
}

func (s *MemoryStore) SaveVisualization(ctx context.Context, id, instructions string, image []byte) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	applyVisualization(d, instructions, image)
	d.UpdatedAt = s.now()
	return d.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, owner string) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*Document{}
	for _, d := range s.docs {
		if d.Owner == owner {
			out = append(out, d.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// nameTaken reports whether owner has a document called name other than
// the one with ID except.
func (s *MemoryStore) nameTaken(owner, name, except string) bool {
	for id, d := range s.docs {
		if id != except && d.Owner == owner && d.Name == name {
			return true
		}
	}
	return false
}

var _ Store = (*MemoryStore)(nil)
