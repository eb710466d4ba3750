package scylla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocql/gocql"

	domainchat "guesthub/internal/domain/chat"
)

var errNoSession = errors.New("scylla: session not initialized")

// Store implements the chat store on top of ScyllaDB.
type Store struct {
	session *gocql.Session
	logger  *slog.Logger
}

func NewStore(session *gocql.Session, logger *slog.Logger) *Store {
	return &Store{session: session, logger: logger}
}

func (s *Store) ConversationByGuest(ctx context.Context, guestID string) (*domainchat.Conversation, error) {
	if s.session == nil {
		return nil, errNoSession
	}
	var (
		id       gocql.UUID
		conv     domainchat.Conversation
		status   string
		lastText string
	)
	err := s.session.
		Query(`SELECT id, channel, status, created_at, last_message_at, last_message_text FROM conversations_by_guest WHERE guest_id = ? LIMIT 1`, guestID).
		WithContext(ctx).
		Scan(&id, &conv.Channel, &status, &conv.CreatedAt, &conv.LastMessageAt, &lastText)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, domainchat.ErrConversationNotFound
		}
		return nil, err
	}
	conv.ID = id.String()
	conv.GuestID = guestID
	conv.Status = domainchat.ConversationStatus(status)
	conv.LastMessageText = lastText
	return &conv, nil
}

func (s *Store) SaveConversation(ctx context.Context, c *domainchat.Conversation) error {
	if s.session == nil {
		return errNoSession
	}
	id, err := gocql.ParseUUID(c.ID)
	if err != nil {
		return fmt.Errorf("scylla: conversation id: %w", err)
	}
	return s.session.
		Query(`INSERT INTO conversations_by_guest (guest_id, id, channel, status, created_at, last_message_at, last_message_text) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.GuestID, id, c.Channel, string(c.Status), c.CreatedAt, c.LastMessageAt, c.LastMessageText).
		WithContext(ctx).
		Exec()
}

func (s *Store) AppendMessage(ctx context.Context, m *domainchat.Message) error {
	if s.session == nil {
		return errNoSession
	}
	convID, err := gocql.ParseUUID(m.ConversationID)
	if err != nil {
		return fmt.Errorf("scylla: conversation id: %w", err)
	}
	attachments, err := json.Marshal(m.Attachments)
	if err != nil {
		return err
	}
	return s.session.
		Query(`INSERT INTO messages (conversation_id, bucket_id, id, sender_id, sender_type, content, attachments_json, created_at, read) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			convID, gocql.UUIDFromTime(m.CreatedAt), m.ID, m.SenderID, string(m.SenderType), m.Content, string(attachments), m.CreatedAt, m.Read).
		WithContext(ctx).
		Exec()
}

// ListMessages returns messages newest first.
func (s *Store) ListMessages(ctx context.Context, conversationID string, limit int) ([]*domainchat.Message, error) {
	if s.session == nil {
		return nil, errNoSession
	}
	convID, err := gocql.ParseUUID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("scylla: conversation id: %w", err)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	iter := s.session.
		Query(`SELECT id, sender_id, sender_type, content, attachments_json, created_at, read FROM messages WHERE conversation_id = ? LIMIT ?`, convID, limit).
		WithContext(ctx).
		Iter()

	out := make([]*domainchat.Message, 0, limit)
	var (
		id          string
		senderID    string
		senderType  string
		content     string
		attachments string
		createdAt   time.Time
		read        bool
	)
	for iter.Scan(&id, &senderID, &senderType, &content, &attachments, &createdAt, &read) {
		msg := &domainchat.Message{
			ID:             id,
			ConversationID: conversationID,
			SenderID:       senderID,
			SenderType:     domainchat.SenderType(senderType),
			Content:        content,
			CreatedAt:      createdAt,
			Read:           read,
		}
		if attachments != "" && attachments != "null" {
			if err := json.Unmarshal([]byte(attachments), &msg.Attachments); err != nil {
				return nil, err
			}
		}
		out = append(out, msg)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips the read flag on every message the reader did not send.
// Row-by-row updates are fine at hotel-chat volume.
func (s *Store) MarkRead(ctx context.Context, conversationID, readerID string) error {
	if s.session == nil {
		return errNoSession
	}
	convID, err := gocql.ParseUUID(conversationID)
	if err != nil {
		return fmt.Errorf("scylla: conversation id: %w", err)
	}
	iter := s.session.
		Query(`SELECT bucket_id, sender_id, read FROM messages WHERE conversation_id = ?`, convID).
		WithContext(ctx).
		Iter()

	var (
		bucketID gocql.UUID
		senderID string
		read     bool
	)
	type target struct{ bucket gocql.UUID }
	var targets []target
	for iter.Scan(&bucketID, &senderID, &read) {
		if senderID != readerID && !read {
			targets = append(targets, target{bucket: bucketID})
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}
	for _, tgt := range targets {
		err := s.session.
			Query(`UPDATE messages SET read = true WHERE conversation_id = ? AND bucket_id = ?`, convID, tgt.bucket).
			WithContext(ctx).
			Exec()
		if err != nil {
			return err
		}
	}
	return nil
}

var _ domainchat.Store = (*Store)(nil)
