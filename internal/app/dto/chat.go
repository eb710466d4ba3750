package dto

import (
	"time"

	domainchat "guesthub/internal/domain/chat"
)

type ConversationView struct {
	ID              string    `json:"id"`
	GuestID         string    `json:"guest_id"`
	Channel         string    `json:"channel"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	LastMessageAt   time.Time `json:"last_message_at,omitempty"`
	LastMessageText string    `json:"last_message_text,omitempty"`
}

func NewConversationView(c *domainchat.Conversation) ConversationView {
	return ConversationView{
		ID:              c.ID,
		GuestID:         c.GuestID,
		Channel:         c.Channel,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		LastMessageAt:   c.LastMessageAt,
		LastMessageText: c.LastMessageText,
	}
}

type AttachmentView struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type ChatMessageView struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	SenderID       string           `json:"sender_id"`
	SenderType     string           `json:"sender_type"`
	Content        string           `json:"content"`
	Attachments    []AttachmentView `json:"attachments,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Read           bool             `json:"read"`
}

type ChatMessageCollection struct {
	Items []ChatMessageView `json:"items"`
}

func NewChatMessageView(m *domainchat.Message) ChatMessageView {
	view := ChatMessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderType:     string(m.SenderType),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		Read:           m.Read,
	}
	for _, a := range m.Attachments {
		view.Attachments = append(view.Attachments, AttachmentView{
			ID:       a.ID,
			Type:     string(a.Type),
			URL:      a.URL,
			Filename: a.Filename,
			Size:     a.Size,
			MimeType: a.MimeType,
		})
	}
	return view
}

func NewChatMessageCollection(messages []*domainchat.Message) ChatMessageCollection {
	items := make([]ChatMessageView, 0, len(messages))
	for _, m := range messages {
		items = append(items, NewChatMessageView(m))
	}
	return ChatMessageCollection{Items: items}
}
