package handler

import (
	"net/http"

	"fourwheeler-backend/internal/usecase/user"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the signed-in user's routes.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.GetProfile)
		users.PUT("/me", h.UpdateProfile)
		users.GET("/favorites", h.ListFavorites)
		users.POST("/favorites/:carId", h.AddFavorite)
		users.DELETE("/favorites/:carId", h.RemoveFavorite)
	}
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.ListUsers)
	router.DELETE("/users/:id", h.DeleteUser)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cars, err := h.service.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Favorites retrieved successfully", cars)
}

func (h *UserHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId", "car")
	if !ok {
		return
	}

	if err := h.service.AddFavorite(c.Request.Context(), userID, carID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car added to favorites", nil)
}

func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := uuidParam(c, "carId", "car")
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), userID, carID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Car removed from favorites", nil)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var query user.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), &query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
