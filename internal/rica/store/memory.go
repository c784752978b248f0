package store

import (
	"context"
	"sync"

	"pavrica/internal/rica/models"
	"pavrica/pkg/platform/sentinel"
)

// MemoryStore is an in-memory store for tests.
type MemoryStore struct {
	mu       sync.Mutex
	creds    *models.Credentials
	outcomes []*models.RegistrationOutcome
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// SetCredentials seeds the carrier account credentials.
func (s *MemoryStore) SetCredentials(creds models.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &creds
}

func (s *MemoryStore) FetchCredentials(_ context.Context) (models.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return models.Credentials{}, sentinel.ErrNotFound
	}
	return *s.creds, nil
}

func (s *MemoryStore) InsertOutcome(_ context.Context, outcome *models.RegistrationOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *outcome
	s.outcomes = append(s.outcomes, &clone)
	return nil
}

// Outcomes returns a snapshot of the stored rows.
func (s *MemoryStore) Outcomes() []*models.RegistrationOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.RegistrationOutcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}
