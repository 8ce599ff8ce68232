package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	suggestionUC "github.com/khoahotran/honors-hub/internal/application/usecase/suggestion"
	"github.com/khoahotran/honors-hub/internal/domain/suggestion"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

type OptimizeHandler struct {
	optimizeUseCase *suggestionUC.OptimizeUseCase
}

func NewOptimizeHandler(uc *suggestionUC.OptimizeUseCase) *OptimizeHandler {
	return &OptimizeHandler{optimizeUseCase: uc}
}

func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req suggestion.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for optimization", err))
		return
	}

	output, err := h.optimizeUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, output)
}
