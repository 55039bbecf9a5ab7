package user

import (
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Phone  *string `json:"phone" validate:"omitempty,phone"`
	Avatar *string `json:"avatar" validate:"omitempty,url,max=2048"`
}

// ListUsersQuery is bound from the admin listing query string.
type ListUsersQuery struct {
	Page           int  `form:"page"`
	Limit          int  `form:"limit"`
	IncludeDeleted bool `form:"include_deleted"`
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      string      `json:"role"`
	Status    string      `json:"status"`
	Phone     *string     `json:"phone"`
	Avatar    *string     `json:"avatar"`
	Favorites []uuid.UUID `json:"favorites"`
	Deleted   bool        `json:"deleted,omitempty"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type UserListResponse struct {
	Page  int             `json:"page"`
	Pages int             `json:"pages"`
	Total int64           `json:"total"`
	Users []*UserResponse `json:"users"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	favorites := u.Favorites
	if favorites == nil {
		favorites = []uuid.UUID{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		Favorites: favorites,
		Deleted:   u.Deleted,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
