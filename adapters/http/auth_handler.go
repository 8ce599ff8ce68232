package http

import (
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/internal/application/usecase/session"
	"github.com/khoahotran/honors-hub/pkg/logger"
)

type AuthHandler struct {
	sessionUseCase *session.SessionUseCase
	frontendOrigin string
	logger         logger.Logger
}

// NewAuthHandler posts sign-in results only to frontendOrigin. An empty origin
// restricts them to the API's own origin.
func NewAuthHandler(uc *session.SessionUseCase, frontendOrigin string, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessionUseCase: uc,
		frontendOrigin: frontendOrigin,
		logger:         log,
	}
}

// Login returns the URL the client opens in a popup. An empty auth_url means the
// provider refused and the reason is waiting in /api/notifications.
func (h *AuthHandler) Login(c *gin.Context) {
	url := h.sessionUseCase.SignIn(c.Request.Context(), GetSessionID(c))
	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

var popupPage = template.Must(template.New("popup").Parse(`<!doctype html>
<html><head><title>Honors Hub</title></head>
<body>
<p>{{if .SignedIn}}You are signed in.{{else}}Sign-in did not complete.{{end}} You can close this window.</p>
<script>
if (window.opener) { window.opener.postMessage({type: "honors-hub:auth", signedIn: {{.SignedIn}}}, {{if .TargetOrigin}}{{.TargetOrigin}}{{else}}window.location.origin{{end}}); }
window.close();
</script>
</body></html>`))

type popupData struct {
	SignedIn     bool
	TargetOrigin string
}

func renderPopup(w io.Writer, data popupData) error {
	return popupPage.Execute(w, data)
}

// Callback is the OAuth redirect target opened inside the popup.
func (h *AuthHandler) Callback(c *gin.Context) {
	out, err := h.sessionUseCase.ExecuteCallback(c.Request.Context(), session.CallbackInput{
		State:     c.Query("state"),
		Code:      c.Query("code"),
		ErrorCode: c.Query("error"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := renderPopup(c.Writer, popupData{SignedIn: out.SignedIn, TargetOrigin: h.frontendOrigin}); err != nil {
		h.logger.Error("Failed to render sign-in popup page", err, zap.String("session_id", out.SessionID))
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessionUseCase.SignOut(c.Request.Context(), GetSessionID(c))
	c.Status(http.StatusNoContent)
}
