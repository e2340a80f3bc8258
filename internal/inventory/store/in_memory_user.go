package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
)

var _ UserStore = (*InMemoryUserStore)(nil)

// InMemoryUserStore implements UserStore using in-memory maps.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[int64]User
	roles map[int64]Role
}

// NewInMemoryUserStore creates a UserStore holding the given roles and users.
// Users referencing an unknown role keep an empty role name.
func NewInMemoryUserStore(roles []Role, users []User) *InMemoryUserStore {
	s := &InMemoryUserStore{
		users: make(map[int64]User, len(users)),
		roles: make(map[int64]Role, len(roles)),
	}
	for _, r := range roles {
		s.roles[r.ID] = r
	}
	for _, u := range users {
		u.RoleName = s.roles[u.RoleID].Name
		s.users[u.ID] = u
	}
	return s
}

func (s *InMemoryUserStore) FindAll(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]User, 0, len(s.users))
	for _, u := range s.users {
		if _, ok := s.roles[u.RoleID]; !ok {
			continue
		}
		list = append(list, u)
	}
	slices.SortFunc(list, func(a, b User) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (s *InMemoryUserStore) FindRoles(_ context.Context) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		list = append(list, r)
	}
	slices.SortFunc(list, func(a, b Role) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (s *InMemoryUserStore) ChangeRole(_ context.Context, userID, roleID int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[roleID]
	if !ok {
		return nil, inverrors.ErrInvalidRole
	}
	user, ok := s.users[userID]
	if !ok {
		return nil, inverrors.ErrUserNotFound
	}
	user.RoleID = role.ID
	user.RoleName = role.Name
	s.users[userID] = user
	return &user, nil
}
