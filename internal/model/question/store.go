package question

// Store exposes catalog retrieval for HTTP handlers.
type Store interface {
	List() []Question
}

// MemoryStore implements Store with an in-memory slice loaded at startup.
type MemoryStore struct {
	items []Question
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied questions.
func NewMemoryStore(items []Question) *MemoryStore {
	return &MemoryStore{items: append([]Question(nil), items...)}
}

// List returns the full catalog.
func (s *MemoryStore) List() []Question {
	return append([]Question(nil), s.items...)
}
