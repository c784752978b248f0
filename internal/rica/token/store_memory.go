package token

import (
	"context"
	"sync"

	"pavrica/pkg/platform/sentinel"
)

// MemoryMirror is an in-memory MirrorStore for tests and single-process
// deployments without Redis.
type MemoryMirror struct {
	mu  sync.Mutex
	tok *Token
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{}
}

func (m *MemoryMirror) Save(_ context.Context, tok Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = &tok
	return nil
}

func (m *MemoryMirror) Load(_ context.Context) (Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == nil {
		return Token{}, sentinel.ErrNotFound
	}
	return *m.tok, nil
}
