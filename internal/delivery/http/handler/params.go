package handler

import (
	"net/http"

	"fourwheeler-backend/internal/middleware"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uuidParam parses a path parameter, writing a 400 when it is malformed.
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID must only be used behind AuthMiddleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "User not authenticated")
		return uuid.Nil, false
	}
	return id, true
}
