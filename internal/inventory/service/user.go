package service

import (
	"context"
	"fmt"

	"github.com/abgdnv/inventory/internal/inventory/store"
)

// UserService defines the methods for managing users and their roles.
type UserService interface {
	// FindAll returns every user with its role name, ordered by id.
	FindAll(ctx context.Context) ([]UserDto, error)

	// FindRoles returns every role ordered by id.
	FindRoles(ctx context.Context) ([]RoleDto, error)

	// ChangeRole reassigns the role of a user.
	// Returns ErrInvalidRole if the role does not exist and ErrUserNotFound if the user does not.
	ChangeRole(ctx context.Context, userID int64, change RoleChangeDto) (*UserDto, error)
}

// Users implements UserService.
type Users struct {
	store store.UserStore
}

func NewUserService(userStore store.UserStore) *Users {
	return &Users{store: userStore}
}

type UserDto struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

type RoleDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoleChangeDto is the payload of a role change.
type RoleChangeDto struct {
	RoleID int64 `json:"role_id" validate:"required"`
}

func (s *Users) FindAll(ctx context.Context) ([]UserDto, error) {
	users, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	dtos := make([]UserDto, len(users))
	for i := range users {
		dtos[i] = *toUserDto(&users[i])
	}
	return dtos, nil
}

func (s *Users) FindRoles(ctx context.Context) ([]RoleDto, error) {
	roles, err := s.store.FindRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	dtos := make([]RoleDto, len(roles))
	for i, r := range roles {
		dtos[i] = RoleDto{ID: r.ID, Name: r.Name}
	}
	return dtos, nil
}

func (s *Users) ChangeRole(ctx context.Context, userID int64, change RoleChangeDto) (*UserDto, error) {
	user, err := s.store.ChangeRole(ctx, userID, change.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to change role of user %d: %w", userID, err)
	}
	return toUserDto(user), nil
}

func toUserDto(u *store.User) *UserDto {
	return &UserDto{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		RoleID:   u.RoleID,
		RoleName: u.RoleName,
	}
}
