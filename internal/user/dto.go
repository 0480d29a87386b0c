package user

import "time"

// UserDTO is the public profile shape. The password hash never leaves the
// package boundary.
type UserDTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserDTO(u *User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateUserInput struct {
	Email *string `json:"email"`
}
