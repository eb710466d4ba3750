package chat

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainchat "guesthub/internal/domain/chat"
	"guesthub/internal/infra/storage/memory"
)

type stubUploader struct {
	keys []string
	err  error
}

func (u *stubUploader) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.keys = append(u.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type stubPusher struct {
	sent [][]string
}

func (p *stubPusher) Push(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	p.sent = append(p.sent, tokens)
	return nil
}

type fixture struct {
	svc      *Service
	uploader *stubUploader
	pusher   *stubPusher
	tokens   *memory.PushTokenStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	uploader := &stubUploader{}
	pusher := &stubPusher{}
	tokens := memory.NewPushTokenStore()
	svc := &Service{
		Store:   memory.NewChatStore(),
		Uploads: uploader,
		Pushes:  pusher,
		Dedup:   memory.NewDedupCache(),
		Tokens:  tokens,
		Now:     func() time.Time { return time.Date(2023, 6, 1, 9, 0, 0, 0, time.UTC) },
	}
	return fixture{svc: svc, uploader: uploader, pusher: pusher, tokens: tokens}
}

func TestEnsureConversationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.EnsureConversation(ctx, "g-1")
	require.NoError(t, err)
	second, err := f.svc.EnsureConversation(ctx, "g-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domainchat.ConversationActive, first.Status)
}

func TestSendMessageNotifiesStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.Save(ctx, "staff-1", "ExponentPushToken[abc]"))
	f.tokens.MarkStaff("staff-1")

	msg, err := f.svc.SendMessage(ctx, SendParams{
		GuestID:    "g-1",
		SenderID:   "g-1",
		SenderType: domainchat.SenderGuest,
		Content:    "Is late checkout possible?",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	require.Len(t, f.pusher.sent, 1)
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, f.pusher.sent[0])

	history, err := f.svc.ListMessages(ctx, "g-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Is late checkout possible?", history[0].Content)
}

func TestStaffReplyNotifiesGuestOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.tokens.Save(ctx, "g-1", "ExponentPushToken[guest]"))
	require.NoError(t, f.tokens.Save(ctx, "staff-1", "ExponentPushToken[staff]"))
	f.tokens.MarkStaff("staff-1")

	_, err := f.svc.SendMessage(ctx, SendParams{
		GuestID:    "g-1",
		SenderID:   "staff-1",
		SenderType: domainchat.SenderStaff,
		Content:    "Late checkout until 2pm is fine.",
	})
	require.NoError(t, err)

	require.Len(t, f.pusher.sent, 1)
	assert.Equal(t, []string{"ExponentPushToken[guest]"}, f.pusher.sent[0])
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SendMessage(context.Background(), SendParams{GuestID: "g-1", SenderID: "g-1", SenderType: domainchat.SenderGuest, Content: "   "})
	assert.ErrorIs(t, err, domainchat.ErrEmptyMessage)
}

func TestSendMessageUploadsAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.svc.SendMessage(ctx, SendParams{
		GuestID:    "g-1",
		SenderID:   "g-1",
		SenderType: domainchat.SenderGuest,
		Attachments: []AttachmentUpload{{
			Filename: "receipt.pdf",
			MimeType: "application/pdf",
			Size:     1024,
			Body:     strings.NewReader("%PDF-"),
		}},
	})
	require.NoError(t, err)

	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, domainchat.AttachmentDocument, att.Type)
	assert.Contains(t, att.URL, "receipt.pdf")
	require.Len(t, f.uploader.keys, 1)
	assert.True(t, strings.HasPrefix(f.uploader.keys[0], "chat/"), f.uploader.keys[0])
}

func TestAttachmentTypeFromMime(t *testing.T) {
	assert.Equal(t, domainchat.AttachmentImage, attachmentType("image/png"))
	assert.Equal(t, domainchat.AttachmentVideo, attachmentType("video/mp4"))
	assert.Equal(t, domainchat.AttachmentDocument, attachmentType("text/plain"))
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, SendParams{GuestID: "g-1", SenderID: "staff-1", SenderType: domainchat.SenderStaff, Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkRead(ctx, "g-1", "g-1"))

	history, err := f.svc.ListMessages(ctx, "g-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Read)
}
