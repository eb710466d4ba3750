package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainauth "guesthub/internal/domain/auth"
	domainguest "guesthub/internal/domain/guest"
)

// GuestRepository stores guests in memory.
type GuestRepository struct {
	mu      sync.RWMutex
	byID    map[domainguest.ID]*domainguest.Guest
	byEmail map[string]domainguest.ID
}

func NewGuestRepository() *GuestRepository {
	return &GuestRepository{
		byID:    make(map[domainguest.ID]*domainguest.Guest),
		byEmail: make(map[string]domainguest.ID),
	}
}

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.ID) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.byID[id]; ok {
		return cloneGuest(g), nil
	}
	return nil, domainguest.ErrNotFound
}

func (r *GuestRepository) ByEmail(ctx context.Context, email string) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainguest.NormalizeEmail(email)]
	if !ok {
		return nil, domainguest.ErrNotFound
	}
	if g, ok := r.byID[id]; ok {
		return cloneGuest(g), nil
	}
	return nil, domainguest.ErrNotFound
}

func (r *GuestRepository) Save(ctx context.Context, g *domainguest.Guest) error {
	if g == nil || strings.TrimSpace(string(g.ID)) == "" {
		return domainguest.ErrIDRequired
	}
	emailKey := domainguest.NormalizeEmail(g.Email)
	if emailKey == "" {
		return domainguest.ErrEmailRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != g.ID {
		return domainguest.ErrEmailAlreadyUsed
	}
	r.byEmail[emailKey] = g.ID
	r.byID[g.ID] = cloneGuest(g)
	return nil
}

func cloneGuest(g *domainguest.Guest) *domainguest.Guest {
	if g == nil {
		return nil
	}
	copyGuest := *g
	return &copyGuest
}

// SessionStore keeps bearer sessions in memory.
type SessionStore struct {
	mu         sync.RWMutex
	tokens     map[domainauth.Token]*domainauth.Session
	guestIndex map[domainguest.ID]map[domainauth.Token]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens:     make(map[domainauth.Token]*domainauth.Session),
		guestIndex: make(map[domainguest.ID]map[domainauth.Token]struct{}),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copySession := *session
	s.tokens[session.Token] = &copySession
	if _, ok := s.guestIndex[session.GuestID]; !ok {
		s.guestIndex[session.GuestID] = make(map[domainauth.Token]struct{})
	}
	s.guestIndex[session.GuestID][session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	session, ok := s.tokens[token]
	s.mu.RUnlock()
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		_ = s.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	copySession := *session
	return &copySession, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil
	}
	delete(s.tokens, token)
	if index, ok := s.guestIndex[session.GuestID]; ok {
		delete(index, token)
		if len(index) == 0 {
			delete(s.guestIndex, session.GuestID)
		}
	}
	return nil
}

func (s *SessionStore) DeleteByGuest(ctx context.Context, guestID domainguest.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index, ok := s.guestIndex[guestID]
	if !ok {
		return nil
	}
	for token := range index {
		delete(s.tokens, token)
	}
	delete(s.guestIndex, guestID)
	return nil
}

var (
	_ domainguest.Repository  = (*GuestRepository)(nil)
	_ domainauth.SessionStore = (*SessionStore)(nil)
)
