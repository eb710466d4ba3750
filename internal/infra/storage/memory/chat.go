package memory

import (
	"context"
	"sync"
	"time"

	domainchat "guesthub/internal/domain/chat"
)

// ChatStore keeps conversations and messages in memory.
type ChatStore struct {
	mu       sync.RWMutex
	byGuest  map[string]*domainchat.Conversation
	messages map[string][]*domainchat.Message
}

func NewChatStore() *ChatStore {
	return &ChatStore{
		byGuest:  make(map[string]*domainchat.Conversation),
		messages: make(map[string][]*domainchat.Message),
	}
}

func (s *ChatStore) ConversationByGuest(ctx context.Context, guestID string) (*domainchat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.byGuest[guestID]
	if !ok {
		return nil, domainchat.ErrConversationNotFound
	}
	copyConv := *conv
	return &copyConv, nil
}

func (s *ChatStore) SaveConversation(ctx context.Context, c *domainchat.Conversation) error {
	if c == nil {
		return domainchat.ErrConversationNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copyConv := *c
	s.byGuest[c.GuestID] = &copyConv
	return nil
}

func (s *ChatStore) AppendMessage(ctx context.Context, m *domainchat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyMsg := *m
	copyMsg.Attachments = append([]domainchat.Attachment(nil), m.Attachments...)
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], &copyMsg)
	return nil
}

// ListMessages returns the newest messages first.
func (s *ChatStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*domainchat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.messages[conversationID]
	out := make([]*domainchat.Message, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		copyMsg := *all[i]
		out = append(out, &copyMsg)
	}
	return out, nil
}

func (s *ChatStore) MarkRead(ctx context.Context, conversationID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages[conversationID] {
		if m.SenderID != readerID {
			m.Read = true
		}
	}
	return nil
}

// PushTokenStore maps users to their device push tokens. Staff tokens are
// tracked separately so guest messages can fan out to the whole team.
type PushTokenStore struct {
	mu      sync.RWMutex
	byUser  map[string][]string
	isStaff map[string]bool
}

func NewPushTokenStore() *PushTokenStore {
	return &PushTokenStore{byUser: make(map[string][]string), isStaff: make(map[string]bool)}
}

func (s *PushTokenStore) Save(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byUser[userID] {
		if existing == token {
			return nil
		}
	}
	s.byUser[userID] = append(s.byUser[userID], token)
	return nil
}

func (s *PushTokenStore) MarkStaff(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isStaff[userID] = true
}

func (s *PushTokenStore) TokensFor(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.byUser[userID]...), nil
}

func (s *PushTokenStore) StaffTokens(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for userID, staff := range s.isStaff {
		if staff {
			out = append(out, s.byUser[userID]...)
		}
	}
	return out, nil
}

// DedupCache is the in-memory stand-in for the redis dedup cache.
type DedupCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewDedupCache() *DedupCache {
	return &DedupCache{seen: make(map[string]time.Time)}
}

func (c *DedupCache) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if expiry, ok := c.seen[key]; ok && expiry.After(now) {
		return true, nil
	}
	c.seen[key] = now.Add(ttl)
	return false, nil
}

var _ domainchat.Store = (*ChatStore)(nil)
