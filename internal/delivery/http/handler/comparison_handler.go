package handler

import (
	"net/http"

	"fourwheeler-backend/internal/usecase/comparison"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ComparisonHandler struct {
	service *comparison.Service
}

func NewComparisonHandler(service *comparison.Service) *ComparisonHandler {
	return &ComparisonHandler{service: service}
}

func (h *ComparisonHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/gemini/compare-cars", h.CompareCars)
}

func (h *ComparisonHandler) CompareCars(c *gin.Context) {
	var req comparison.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.CompareCars(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Comparison generated successfully", res)
}
