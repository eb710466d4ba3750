package chat

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrEmptyMessage         = errors.New("chat: message content required")
)

type SenderType string

const (
	SenderGuest SenderType = "guest"
	SenderStaff SenderType = "staff"
)

type ConversationStatus string

const (
	ConversationActive ConversationStatus = "active"
	ConversationClosed ConversationStatus = "closed"
)

// Conversation is one guest's thread with the hotel staff.
type Conversation struct {
	ID              string
	GuestID         string
	Channel         string
	Status          ConversationStatus
	CreatedAt       time.Time
	LastMessageAt   time.Time
	LastMessageText string
}

type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentVideo    AttachmentType = "video"
	AttachmentDocument AttachmentType = "document"
)

type Attachment struct {
	ID       string
	Type     AttachmentType
	URL      string
	Filename string
	Size     int64
	MimeType string
}

type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	SenderType     SenderType
	Content        string
	Attachments    []Attachment
	CreatedAt      time.Time
	Read           bool
}

// Store persists conversations and their messages.
type Store interface {
	ConversationByGuest(ctx context.Context, guestID string) (*Conversation, error)
	SaveConversation(ctx context.Context, c *Conversation) error
	AppendMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, conversationID, readerID string) error
}
