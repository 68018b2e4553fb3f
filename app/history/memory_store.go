package history

import "sync"

type MemoryStore struct {
	urls map[string]struct{}
	mu   sync.RWMutex
}

func NewMemoryStore(urls ...string) *MemoryStore {
	s := &MemoryStore{urls: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.urls[u] = struct{}{}
	}
	return s
}

func (s *MemoryStore) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

func (s *MemoryStore) Add(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[url] = struct{}{}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// insert adds url and reports whether it was new.
func (s *MemoryStore) insert(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}
