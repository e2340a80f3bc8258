package store

import (
	"context"
	"fmt"
	"time"
)

var seededAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Seed roles, users and products, mirroring migration 000002_seed.
var seedRoles = []Role{
	{ID: 1, Name: "Admin"},
	{ID: 2, Name: "Seller"},
	{ID: 3, Name: "Pelanggan"},
}

var seedProducts = []struct {
	name  string
	stock int32
	price int64
}{
	{"Laptop Gaming ASUS", 10, 15000000},
	{"Mouse Logitech Wireless", 50, 250000},
	{"Keyboard Mechanical RGB", 30, 750000},
	{"Monitor LG 24 Inch", 15, 2100000},
	{"Headset HyperX", 20, 1200000},
	{"Webcam 1080p HD", 25, 500000},
	{"Mousepad Extended", 100, 150000},
	{"USB Hub 3.0", 40, 100000},
	{"External HDD 1TB", 10, 850000},
	{"Kursi Gaming Ergonomis", 5, 2500000},
}

func seedUsers() []User {
	users := []User{{ID: 1, Name: "Super Admin", Email: "admin@toko.com", RoleID: 1, CreatedAt: seededAt}}
	for i := 1; i <= 5; i++ {
		users = append(users, User{
			ID:        int64(len(users) + 1),
			Name:      fmt.Sprintf("Seller %d", i),
			Email:     fmt.Sprintf("seller%d@toko.com", i),
			RoleID:    2,
			CreatedAt: seededAt,
		})
	}
	for i := 1; i <= 5; i++ {
		users = append(users, User{
			ID:        int64(len(users) + 1),
			Name:      fmt.Sprintf("Pelanggan %d", i),
			Email:     fmt.Sprintf("user%d@toko.com", i),
			RoleID:    3,
			CreatedAt: seededAt,
		})
	}
	return users
}

// NewSeededInMemoryStores returns in-memory stores holding the demo catalog.
func NewSeededInMemoryStores() (*InMemoryStore, *InMemoryUserStore) {
	products := NewInMemoryStore()
	products.now = func() time.Time { return seededAt }
	for _, p := range seedProducts {
		_, _ = products.Create(context.Background(), p.name, p.stock, p.price)
	}
	products.now = time.Now
	return products, NewInMemoryUserStore(seedRoles, seedUsers())
}
