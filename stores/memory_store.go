package stores

import (
	"context"
	"fmt"
	"sync"
	"time"

	ww "github.com/panyam/whisperwall"
)

// MemoryUserStore is an in-memory UserStore for development and tests.
// Lookups by username and external id are index maps onto the id map.
type MemoryUserStore struct {
	mu           sync.RWMutex
	byId         map[string]*ww.User
	byUsername   map[string]string
	byExternalId map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byId:         make(map[string]*ww.User),
		byUsername:   make(map[string]string),
		byExternalId: make(map[string]string),
	}
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, user *ww.User) error {
	if user.Id == "" {
		return fmt.Errorf("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byId[user.Id]; ok {
		return fmt.Errorf("user %s already exists", user.Id)
	}
	if user.Username != "" {
		if _, ok := s.byUsername[user.Username]; ok {
			return ww.ErrDuplicateUsername
		}
	}
	if user.ExternalId != "" {
		if _, ok := s.byExternalId[user.ExternalId]; ok {
			return fmt.Errorf("external id %s already registered", user.ExternalId)
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.byId[user.Id] = &stored
	if user.Username != "" {
		s.byUsername[user.Username] = user.Id
	}
	if user.ExternalId != "" {
		s.byExternalId[user.ExternalId] = user.Id
	}
	return nil
}

func (s *MemoryUserStore) GetUserById(ctx context.Context, userId string) (*ww.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(userId)
}

func (s *MemoryUserStore) GetUserByUsername(ctx context.Context, username string) (*ww.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userId, ok := s.byUsername[username]
	if !ok {
		return nil, ww.ErrUserNotFound
	}
	return s.getLocked(userId)
}

func (s *MemoryUserStore) GetUserByExternalId(ctx context.Context, externalId string) (*ww.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userId, ok := s.byExternalId[externalId]
	if !ok {
		return nil, ww.ErrUserNotFound
	}
	return s.getLocked(userId)
}

func (s *MemoryUserStore) SaveSecret(ctx context.Context, userId string, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byId[userId]
	if !ok {
		return ww.ErrUserNotFound
	}
	user.Secret = secret
	user.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStore) ListSecrets(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var secrets []string
	for _, user := range s.byId {
		if user.HasSecret() {
			secrets = append(secrets, user.Secret)
		}
	}
	return secrets, nil
}

// getLocked returns a copy so callers never alias store-internal state.
func (s *MemoryUserStore) getLocked(userId string) (*ww.User, error) {
	user, ok := s.byId[userId]
	if !ok {
		return nil, ww.ErrUserNotFound
	}
	out := *user
	return &out, nil
}
