package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domainchat "guesthub/internal/domain/chat"
	"guesthub/internal/domain/guest"
)

const notificationDedupTTL = 24 * time.Hour

// Uploader stores attachment payloads and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// Pusher delivers a push notification to a set of device tokens.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

// Dedup remembers notification event ids so a retried send does not ping
// the same devices twice. Seen reports true when the key was already marked.
type Dedup interface {
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// TokenStore resolves device push tokens for notification recipients.
type TokenStore interface {
	TokensFor(ctx context.Context, userID string) ([]string, error)
	StaffTokens(ctx context.Context) ([]string, error)
	Save(ctx context.Context, userID, token string) error
}

// Service runs the guest-to-staff chat: one conversation per guest, message
// history, attachment uploads, and push notifications to the other side.
type Service struct {
	Store      domainchat.Store
	Uploads    Uploader
	Pushes     Pusher
	Dedup      Dedup
	Tokens     TokenStore
	Logger     *slog.Logger
	Now        func() time.Time
	PageLimit  int
	BucketPath string
}

type AttachmentUpload struct {
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

type SendParams struct {
	GuestID     guest.ID
	SenderID    string
	SenderType  domainchat.SenderType
	Content     string
	Attachments []AttachmentUpload
}

// EnsureConversation returns the guest's conversation, creating it on first
// contact.
func (s *Service) EnsureConversation(ctx context.Context, guestID guest.ID) (*domainchat.Conversation, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	conv, err := s.Store.ConversationByGuest(ctx, string(guestID))
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, domainchat.ErrConversationNotFound) {
		return nil, err
	}
	now := s.now().UTC()
	conv = &domainchat.Conversation{
		ID:        uuid.NewString(),
		GuestID:   string(guestID),
		Channel:   "app",
		Status:    domainchat.ConversationActive,
		CreatedAt: now,
	}
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("conversation opened", "conversation_id", conv.ID, "guest_id", guestID)
	}
	return conv, nil
}

// SendMessage persists the message (uploading any attachments first) and
// notifies the receiving side's devices.
func (s *Service) SendMessage(ctx context.Context, params SendParams) (*domainchat.Message, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(params.Content)
	if content == "" && len(params.Attachments) == 0 {
		return nil, domainchat.ErrEmptyMessage
	}

	conv, err := s.EnsureConversation(ctx, params.GuestID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.uploadAttachments(ctx, conv.ID, params.Attachments)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	msg := &domainchat.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       params.SenderID,
		SenderType:     params.SenderType,
		Content:        content,
		Attachments:    attachments,
		CreatedAt:      now,
	}
	if err := s.Store.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	conv.LastMessageAt = now
	conv.LastMessageText = previewText(msg)
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}

	s.notify(ctx, conv, msg)
	return msg, nil
}

// ListMessages returns the newest messages of the guest's conversation.
func (s *Service) ListMessages(ctx context.Context, guestID guest.ID) ([]*domainchat.Message, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	conv, err := s.Store.ConversationByGuest(ctx, string(guestID))
	if err != nil {
		if errors.Is(err, domainchat.ErrConversationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.Store.ListMessages(ctx, conv.ID, s.pageLimit())
}

// MarkRead marks everything addressed to the reader as read.
func (s *Service) MarkRead(ctx context.Context, guestID guest.ID, readerID string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	conv, err := s.Store.ConversationByGuest(ctx, string(guestID))
	if err != nil {
		return err
	}
	return s.Store.MarkRead(ctx, conv.ID, readerID)
}

// RegisterDevice stores a push token for the user.
func (s *Service) RegisterDevice(ctx context.Context, userID, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("chat: push token required")
	}
	return s.Tokens.Save(ctx, userID, token)
}

func (s *Service) uploadAttachments(ctx context.Context, conversationID string, uploads []AttachmentUpload) ([]domainchat.Attachment, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	out := make([]domainchat.Attachment, 0, len(uploads))
	for _, up := range uploads {
		id := uuid.NewString()
		key := path.Join(s.bucketPath(), conversationID, id+"-"+path.Base(up.Filename))
		url, err := s.Uploads.Upload(ctx, key, up.Body, up.Size, up.MimeType)
		if err != nil {
			return nil, fmt.Errorf("chat: upload %s: %w", up.Filename, err)
		}
		out = append(out, domainchat.Attachment{
			ID:       id,
			Type:     attachmentType(up.MimeType),
			URL:      url,
			Filename: up.Filename,
			Size:     up.Size,
			MimeType: up.MimeType,
		})
	}
	return out, nil
}

// notify is best-effort: delivery problems are logged, never surfaced to the
// sender, and the dedup mark keeps retried sends from double-notifying.
func (s *Service) notify(ctx context.Context, conv *domainchat.Conversation, msg *domainchat.Message) {
	if s.Pushes == nil || s.Tokens == nil {
		return
	}
	dedupKey := "chat:notify:" + msg.ID
	if s.Dedup != nil {
		seen, err := s.Dedup.Seen(ctx, dedupKey, notificationDedupTTL)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("notification dedup check failed", "error", err)
			}
		} else if seen {
			return
		}
	}

	var (
		tokens []string
		err    error
		title  string
	)
	if msg.SenderType == domainchat.SenderGuest {
		tokens, err = s.Tokens.StaffTokens(ctx)
		title = "New guest message"
	} else {
		tokens, err = s.Tokens.TokensFor(ctx, conv.GuestID)
		title = "Message from the hotel"
	}
	if err != nil || len(tokens) == 0 {
		if err != nil && s.Logger != nil {
			s.Logger.Warn("push token lookup failed", "error", err)
		}
		return
	}

	data := map[string]string{"conversation_id": conv.ID, "message_id": msg.ID}
	if err := s.Pushes.Push(ctx, tokens, title, previewText(msg), data); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("push delivery failed", "message_id", msg.ID, "error", err)
		}
	}
}

func previewText(msg *domainchat.Message) string {
	if msg.Content != "" {
		return msg.Content
	}
	if len(msg.Attachments) > 0 {
		return "Attachment: " + msg.Attachments[0].Filename
	}
	return ""
}

func attachmentType(mimeType string) domainchat.AttachmentType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return domainchat.AttachmentImage
	case strings.HasPrefix(mimeType, "video/"):
		return domainchat.AttachmentVideo
	default:
		return domainchat.AttachmentDocument
	}
}

func (s *Service) pageLimit() int {
	if s.PageLimit > 0 {
		return s.PageLimit
	}
	return 50
}

func (s *Service) bucketPath() string {
	if s.BucketPath != "" {
		return s.BucketPath
	}
	return "chat"
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ensureDependencies() error {
	if s.Store == nil {
		return errors.New("chat: store required")
	}
	if s.Uploads == nil {
		return errors.New("chat: uploader required")
	}
	return nil
}
