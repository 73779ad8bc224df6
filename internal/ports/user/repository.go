package user

import (
	"context"
	"errors"

	"snapfeed/internal/core/user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already taken")
)

// UserRepository stores and loads accounts.
type UserRepository interface {
	// Create returns ErrUserExists when the username or email is taken.
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	User      *UserDTO `json:"user"`
}

type UserDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`
}

type ProfileDTO struct {
	User           *UserDTO `json:"user"`
	FollowersCount int64    `json:"followers_count"`
	FollowingCount int64    `json:"following_count"`
	PostsCount     int64    `json:"posts_count"`
	IsFollowing    bool     `json:"is_following"`
}

// ToDTO hides the password hash. Email is only shown to the account owner.
func ToDTO(u *user.User, withEmail bool) *UserDTO {
	dto := &UserDTO{
		ID:         u.ID.String(),
		Username:   u.Username,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
	if withEmail {
		dto.Email = u.Email
	}
	return dto
}
