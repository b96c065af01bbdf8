package stats

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps documents in process. It backs single-player offline
// runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]Document
	subs   map[string]map[int]func(Document)
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: map[string]Document{},
		subs: map[string]map[int]func(Document){},
	}
}

func (s *MemoryStore) Increment(_ context.Context, key, field string) error {
	s.mu.Lock()
	doc, ok := s.docs[key]
	if !ok {
		doc = Document{}
		s.docs[key] = doc
	}
	doc[field]++
	s.mu.Unlock()
	s.publish(key)
	return nil
}

func (s *MemoryStore) Set(_ context.Context, key string, fields Document) error {
	s.mu.Lock()
	doc, ok := s.docs[key]
	if !ok {
		doc = Document{}
		s.docs[key] = doc
	}
	for f, v := range fields {
		if _, exists := doc[f]; !exists {
			doc[f] = v
		}
	}
	s.mu.Unlock()
	s.publish(key)
	return nil
}

func (s *MemoryStore) Subscribe(_ context.Context, key string, onUpdate func(Document), _ func(error)) (func(), error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.subs[key] == nil {
		s.subs[key] = map[int]func(Document){}
	}
	s.subs[key][id] = onUpdate
	doc := s.snapshot(key)
	s.mu.Unlock()

	onUpdate(doc)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
	}, nil
}

// Get returns a copy of the document, or nil if it does not exist.
func (s *MemoryStore) Get(key string) Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(key)
}

func (s *MemoryStore) snapshot(key string) Document {
	doc, ok := s.docs[key]
	if !ok {
		return nil
	}
	return maps.Clone(doc)
}

func (s *MemoryStore) publish(key string) {
	s.mu.RLock()
	doc := s.snapshot(key)
	var fns []func(Document)
	for _, fn := range s.subs[key] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(doc)
	}
}
