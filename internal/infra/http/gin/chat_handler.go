package ginserver

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"guesthub/internal/app/dto"
	chatsvc "guesthub/internal/app/services/chat"
	domainchat "guesthub/internal/domain/chat"
	"guesthub/internal/domain/guest"
)

type ChatHandler struct {
	Service *chatsvc.Service
	Logger  *slog.Logger
}

// Conversation returns the caller's conversation, opening one on first
// contact.
func (h ChatHandler) Conversation(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	conv, err := h.Service.EnsureConversation(c.Request.Context(), guest.ID(p.ID))
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewConversationView(conv))
}

func (h ChatHandler) ListMessages(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	messages, err := h.Service.ListMessages(c.Request.Context(), guest.ID(p.ID))
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewChatMessageCollection(messages))
}

// SendMessage accepts either a JSON body {"content": ...} or a multipart
// form with a content field plus attachment files.
func (h ChatHandler) SendMessage(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	params := chatsvc.SendParams{
		GuestID:    guest.ID(p.ID),
		SenderID:   p.ID,
		SenderType: domainchat.SenderGuest,
	}
	var openFiles []multipart.File
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
			return
		}
		if values := form.Value["content"]; len(values) > 0 {
			params.Content = values[0]
		}
		for _, header := range form.File["attachments"] {
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable attachment"})
				return
			}
			openFiles = append(openFiles, file)
			params.Attachments = append(params.Attachments, chatsvc.AttachmentUpload{
				Filename: header.Filename,
				MimeType: header.Header.Get("Content-Type"),
				Size:     header.Size,
				Body:     file,
			})
		}
	} else {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		params.Content = req.Content
	}

	msg, err := h.Service.SendMessage(c.Request.Context(), params)
	if err != nil {
		h.respondChatError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewChatMessageView(msg))
}

func (h ChatHandler) MarkRead(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	if err := h.Service.MarkRead(c.Request.Context(), guest.ID(p.ID), p.ID); err != nil {
		h.respondChatError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ChatHandler) RegisterDevice(c *gin.Context) {
	p, ok := requireGuest(c)
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	if err := h.Service.RegisterDevice(c.Request.Context(), p.ID, strings.TrimSpace(req.Token)); err != nil {
		h.respondChatError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h ChatHandler) respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainchat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("chat operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ChatHTTP = ChatHandler{}
