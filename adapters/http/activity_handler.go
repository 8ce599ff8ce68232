package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/honors-hub/internal/domain/activity"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

type ActivityHandler struct{}

func NewActivityHandler() *ActivityHandler {
	return &ActivityHandler{}
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activities": activity.All()})
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	a, ok := activity.Find(c.Param("id"))
	if !ok {
		c.Error(apperror.NewNotFound("activity", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, a)
}
