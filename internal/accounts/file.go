package accounts

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const accountsFileName = "stored_accounts.json"

// FileStore keeps the registry as a JSON array on disk, one file per
// installation. Corrupt or missing files read as an empty registry; the
// switcher is a convenience feature and must never fail hard on storage.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, accountsFileName)}
}

func (s *FileStore) List(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *FileStore) Upsert(ctx context.Context, up Upsert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	now := time.Now()
	for i := range entries {
		if entries[i].ID != up.ID {
			continue
		}
		// Merge display fields; the cached session survives untouched.
		entries[i].Email = up.Email
		entries[i].Username = up.Username
		entries[i].FullName = up.FullName
		entries[i].AvatarURL = up.AvatarURL
		entries[i].LastUsedAt = now
		return s.save(entries)
	}

	entries = append(entries, Account{
		ID:         up.ID,
		Email:      up.Email,
		Username:   up.Username,
		FullName:   up.FullName,
		AvatarURL:  up.AvatarURL,
		LastUsedAt: now,
	})
	return s.save(entries)
}

func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

func (s *FileStore) TouchLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	for i := range entries {
		if entries[i].ID == id {
			entries[i].LastUsedAt = time.Now()
			return s.save(entries)
		}
	}
	return nil
}

func (s *FileStore) StoreCachedSession(ctx context.Context, id string, session json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	for i := range entries {
		if entries[i].ID == id {
			entries[i].CachedSession = session
			return s.save(entries)
		}
	}
	return nil
}

func (s *FileStore) CachedSession(ctx context.Context, id string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.load() {
		if e.ID == id {
			if len(e.CachedSession) == 0 || !json.Valid(e.CachedSession) {
				return nil, nil
			}
			return e.CachedSession, nil
		}
	}
	return nil, nil
}

func (s *FileStore) load() []Account {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read account registry %s: %v", s.path, err)
		}
		return nil
	}

	var entries []Account
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Corrupt account registry %s, treating as empty: %v", s.path, err)
		return nil
	}
	return entries
}

func (s *FileStore) save(entries []Account) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
