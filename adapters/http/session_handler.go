package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/application/usecase/session"
	"github.com/khoahotran/honors-hub/internal/domain/identity"
	"github.com/khoahotran/honors-hub/internal/domain/notification"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

const sseKeepAlive = 25 * time.Second

type SessionHandler struct {
	sessionUseCase *session.SessionUseCase
	logger         logger.Logger
}

func NewSessionHandler(uc *session.SessionUseCase, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: uc,
		logger:         log,
	}
}

// GetSession answers only once the identity is known, so clients never see a
// provisional anonymous state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	out, err := h.sessionUseCase.Resolve(c.Request.Context(), GetSessionID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToSessionDTO(out))
}

// Events streams the session state: one event after resolution, then one per
// identity change.
func (h *SessionHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	sid := GetSessionID(c)
	l := h.logger.With(zap.String("session_id", sid))

	gate, err := h.sessionUseCase.OpenGate(ctx, sid)
	if err != nil {
		c.Error(err)
		return
	}
	defer gate.Close()
	changes := gate.Changes()

	current, err := gate.Wait(ctx)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if !h.send(c, current, l) {
		return
	}
	last := current

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent("ping", gin.H{})
			c.Writer.Flush()
		case id, ok := <-changes:
			if !ok {
				return
			}
			if sameIdentity(last, id) {
				continue
			}
			if !h.send(c, id, l) {
				return
			}
			last = id
		}
	}
}

func (h *SessionHandler) send(c *gin.Context, id *identity.Identity, l logger.Logger) bool {
	out, err := h.sessionUseCase.Authenticate(c.Request.Context(), id)
	if err != nil {
		l.Error("Failed to resolve session for stream", err)
		c.SSEvent("error", gin.H{"error": "failed to load session"})
		c.Writer.Flush()
		return false
	}
	c.SSEvent("session", ToSessionDTO(out))
	c.Writer.Flush()
	return true
}

func sameIdentity(a, b *identity.Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (h *SessionHandler) Notifications(c *gin.Context) {
	notes, err := h.sessionUseCase.Notifications(c.Request.Context(), GetSessionID(c))
	if err != nil {
		c.Error(err)
		return
	}
	if notes == nil {
		notes = []notification.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notes})
}
