package handler

import (
	"net/http"
	"strings"

	"fourwheeler-backend/internal/middleware"
	"fourwheeler-backend/internal/usecase/auth"
	"fourwheeler-backend/pkg/token"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *auth.Service
	issuer  *token.Issuer
	cookies *Cookies
}

func NewAuthHandler(service *auth.Service, issuer *token.Issuer, cookies *Cookies) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer, cookies: cookies}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/google", h.GoogleLogin)

	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/refresh-token", h.RefreshToken)
		users.POST("/logout", h.Logout)
		users.POST("/forgot-password", h.ForgotPassword)
		users.POST("/otp-password", h.VerifyOTP)
		users.POST("/reset-password", h.ResetPassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSession(c, session)
	utils.SuccessResponse(c, http.StatusOK, "Login successful", session)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req auth.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSession(c, session)
	utils.SuccessResponse(c, http.StatusOK, "Login successful", session)
}

// RefreshToken reads the refresh token from its cookie, falling back to the
// JSON body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)
	if strings.TrimSpace(refreshToken) == "" {
		var req auth.RefreshTokenRequest
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}

	res, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.cookies.SetAccess(c, res.AccessToken, h.issuer.AccessTTL())
	utils.SuccessResponse(c, http.StatusOK, "Token refreshed successfully", res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	utils.SuccessResponse(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "OTP sent to your email", nil)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req auth.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.VerifyOTP(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "OTP verified successfully", res)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) setSession(c *gin.Context, session *auth.AuthResponse) {
	h.cookies.SetAccess(c, session.AccessToken, h.issuer.AccessTTL())
	h.cookies.SetRefresh(c, session.RefreshToken, h.issuer.RefreshTTL())
}
