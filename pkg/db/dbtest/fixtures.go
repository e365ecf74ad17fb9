package dbtest

import (
	"testing"

	"github.com/google/uuid"

	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// Customer inserts a customer with a unique code and phone.
func Customer(t testing.TB, client *db.Client, name string) *models.Customer {
	t.Helper()
	suffix := uuid.NewString()[:8]
	c := &models.Customer{Code: "CST-" + suffix, Name: name, Phone: "08" + suffix}
	if err := client.DB().Create(c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

// Product inserts a product owned by customerID.
func Product(t testing.TB, client *db.Client, customerID uuid.UUID, name string) *models.Product {
	t.Helper()
	pouch := "Standing Pouch"
	p := &models.Product{
		CustomerID:    customerID,
		Code:          "PDK-" + uuid.NewString()[:8],
		Name:          name,
		Brand:         name + " Brand",
		PackagingType: &pouch,
	}
	if err := client.DB().Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// MaterialItem inserts a material category with one item holding stock.
func MaterialItem(t testing.TB, client *db.Client, name string, stock int) *models.MaterialItem {
	t.Helper()
	m := &models.Material{Name: "Bahan " + name}
	if err := client.DB().Create(m).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}
	item := &models.MaterialItem{MaterialID: m.ID, Name: name, Unit: "pcs", Stock: stock}
	if err := client.DB().Create(item).Error; err != nil {
		t.Fatalf("seed material item: %v", err)
	}
	return item
}

// User inserts a staff account with the given role.
func User(t testing.TB, client *db.Client, username string, role enums.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:         username,
		Username:     username,
		Email:        username + "@simkemas.test",
		PasswordHash: "not-a-hash",
		Role:         role,
	}
	if err := client.DB().Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
