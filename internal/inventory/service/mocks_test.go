package service

import (
	"context"

	"github.com/abgdnv/inventory/internal/inventory/store"
	"github.com/abgdnv/inventory/internal/platform/messaging"
	"github.com/stretchr/testify/mock"
)

type mockProductStore struct {
	mock.Mock
}

func (m *mockProductStore) FindAll(ctx context.Context) ([]store.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]store.Product)
	return products, args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, name string, stock int32, price int64) (*store.Product, error) {
	args := m.Called(ctx, name, stock, price)
	product, _ := args.Get(0).(*store.Product)
	return product, args.Error(1)
}

func (m *mockProductStore) Sell(ctx context.Context, id int64) (*store.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*store.Product)
	return product, args.Error(1)
}

func (m *mockProductStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindAll(ctx context.Context) ([]store.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]store.User)
	return users, args.Error(1)
}

func (m *mockUserStore) FindRoles(ctx context.Context) ([]store.Role, error) {
	args := m.Called(ctx)
	roles, _ := args.Get(0).([]store.Role)
	return roles, args.Error(1)
}

func (m *mockUserStore) ChangeRole(ctx context.Context, userID, roleID int64) (*store.User, error) {
	args := m.Called(ctx, userID, roleID)
	user, _ := args.Get(0).(*store.User)
	return user, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	return m.Called(ctx, event).Error(0)
}
