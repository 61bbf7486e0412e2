package session

import (
	"context"
	"sync"
)

// MemoryStore is the in-process Store used by tests.
type MemoryStore struct {
	mu        sync.Mutex
	byToken   map[string]string
	byAccount map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken:   make(map[string]string),
		byAccount: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Create(ctx context.Context, accountID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = accountID
	if s.byAccount[accountID] == nil {
		s.byAccount[accountID] = make(map[string]struct{})
	}
	s.byAccount[accountID][token] = struct{}{}
	return token, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accountID, ok := s.byToken[token]
	return accountID, ok, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	accountID, ok := s.byToken[token]
	if !ok {
		return nil
	}
	delete(s.byToken, token)
	delete(s.byAccount[accountID], token)
	return nil
}

func (s *MemoryStore) DestroyAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.byAccount[accountID] {
		delete(s.byToken, token)
	}
	delete(s.byAccount, accountID)
	return nil
}
