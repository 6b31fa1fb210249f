package tokens

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const tokensFileName = "account_refresh_tokens.json"

type fileEntry struct {
	AccountID     string    `json:"account_id"`
	RefreshToken  string    `json:"refresh_token"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// FileStore keeps tokens as a JSON array on disk with owner-only permissions.
// A corrupt file reads as empty: every token can be re-acquired through a
// manual sign-in, so losing the cache degrades, never breaks.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, tokensFileName)}
}

func (s *FileStore) Store(ctx context.Context, accountID, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	now := time.Now()
	for i := range entries {
		if entries[i].AccountID == accountID {
			entries[i].RefreshToken = refreshToken
			entries[i].LastUpdatedAt = now
			return s.save(entries)
		}
	}

	entries = append(entries, fileEntry{
		AccountID:     accountID,
		RefreshToken:  refreshToken,
		LastUpdatedAt: now,
	})
	return s.save(entries)
}

func (s *FileStore) Get(ctx context.Context, accountID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.load() {
		if e.AccountID == accountID {
			return e.RefreshToken, nil
		}
	}
	return "", nil
}

func (s *FileStore) Remove(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.AccountID != accountID {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

func (s *FileStore) load() []fileEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read token store %s: %v", s.path, err)
		}
		return nil
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Corrupt token store %s, treating as empty: %v", s.path, err)
		return nil
	}
	return entries
}

func (s *FileStore) save(entries []fileEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
