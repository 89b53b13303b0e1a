// Package storage persists interview sessions as one JSON document per
// session under a flat directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
)

// ErrSessionNotFound marks an absent or unreadable session file.
var ErrSessionNotFound = errors.New("session not found")

// Store is a file-backed session store. Writers to the same session id are
// serialized through a per-id lock; distinct sessions do not contend.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create initializes a session with an empty response list and writes it
// immediately. An empty id generates a timestamp-based one; if that file
// already exists, a uuid suffix keeps the id unique.
func (s *Store) Create(id string) (*interview.Session, error) {
	if id == "" {
		id = fmt.Sprintf("session_%d", time.Now().Unix())
		if _, err := os.Stat(s.path(id)); err == nil {
			id = fmt.Sprintf("%s_%s", id, uuid.NewString()[:8])
		}
	}

	session := &interview.Session{
		SessionID: id,
		StartTime: time.Now().UTC(),
		Responses: []interview.Response{},
	}

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.write(session); err != nil {
		return nil, err
	}
	log.Printf("[store] created session %s", id)
	return session, nil
}

// Append adds a response to the session, creating the session on first use,
// and rewrites the whole file.
func (s *Store) Append(id string, resp interview.Response) error {
	if id == "" {
		return ErrSessionNotFound
	}

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.read(id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}
		session = &interview.Session{
			SessionID: id,
			StartTime: time.Now().UTC(),
			Responses: []interview.Response{},
		}
	}

	session.Responses = append(session.Responses, resp)
	return s.write(session)
}

// Load reconstructs a session from its file. Absent or malformed files map
// to ErrSessionNotFound.
func (s *Store) Load(id string) (*interview.Session, error) {
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()
	return s.read(id)
}

// List enumerates stored session ids. A missing directory is an empty store,
// not an error.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *Store) read(id string) (*interview.Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	var session interview.Session
	if err := json.Unmarshal(data, &session); err != nil {
		log.Printf("[store] session file %s is malformed: %v", id, err)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *Store) write(session *interview.Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.SessionID, err)
	}
	if err := os.WriteFile(s.path(session.SessionID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write session %s: %w", session.SessionID, err)
	}
	return nil
}
