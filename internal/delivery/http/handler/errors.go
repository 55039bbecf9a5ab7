package handler

import (
	"errors"
	"net/http"

	"fourwheeler-backend/internal/logger"
	"fourwheeler-backend/internal/middleware"
	appErrors "fourwheeler-backend/pkg/errors"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.CodeValidation, appErrors.CodeWeakPassword, appErrors.CodeInvalidInput:
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}
	}

	switch {
	case errors.Is(err, appErrors.ErrInvalidInput),
		errors.Is(err, appErrors.ErrInvalidEmail),
		errors.Is(err, appErrors.ErrWeakPassword),
		errors.Is(err, appErrors.ErrPasswordReused):
		utils.ErrorResponse(c, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, appErrors.ErrInvalidCredentials),
		errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized),
		errors.Is(err, appErrors.ErrInvalidOTP),
		errors.Is(err, appErrors.ErrResetTokenInvalid):
		utils.ErrorResponse(c, http.StatusUnauthorized, rootMessage(err))
	case errors.Is(err, appErrors.ErrForbidden),
		errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, rootMessage(err))
	case errors.Is(err, appErrors.ErrUserNotFound),
		errors.Is(err, appErrors.ErrCarNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, appErrors.ErrUserAlreadyExists),
		errors.Is(err, appErrors.ErrUsernameTaken),
		errors.Is(err, appErrors.ErrEmailTaken),
		errors.Is(err, appErrors.ErrCarAlreadyExists):
		utils.ErrorResponse(c, http.StatusConflict, rootMessage(err))
	case errors.Is(err, appErrors.ErrUpstream):
		logger.WithRequestID(middleware.GetRequestID(c)).Warn("Upstream failure",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusBadGateway, appErrors.ErrUpstream.Error())
	case errors.Is(err, appErrors.ErrServiceUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, rootMessage(err))
	default:
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// rootMessage prefers the AppError message over the wrapped chain.
func rootMessage(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
