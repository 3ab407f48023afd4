package handler

import (
	"context"
	"testing"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/uow"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type publishedEvent struct {
	Topic   string
	Key     string
	Payload any
}

type fakeQueue struct {
	events []publishedEvent
}

func (f *fakeQueue) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Payload: event})
	return nil
}

func (f *fakeQueue) byTopic(topic string) []publishedEvent {
	var out []publishedEvent
	for _, e := range f.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartProduct{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

type testEnv struct {
	DB    *gorm.DB
	Queue *fakeQueue
	Users *UserHandler
	Prods *ProductHandler
	Carts *CartHandler
	Items *CartProductHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	queue := &fakeQueue{}
	factory := uow.Factory{DB: db}

	return &testEnv{
		DB:    db,
		Queue: queue,
		Users: &UserHandler{UoW: factory, Queue: queue},
		Prods: &ProductHandler{UoW: factory, Queue: queue},
		Carts: &CartHandler{UoW: factory},
		Items: &CartProductHandler{UoW: factory},
	}
}

func (env *testEnv) seedUser(t *testing.T, name, email string) *models.User {
	u := &models.User{UserName: name, Email: email}
	if err := env.DB.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (env *testEnv) seedProduct(t *testing.T, name string) *models.Product {
	p := &models.Product{Name: name}
	if err := env.DB.Create(p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (env *testEnv) seedCart(t *testing.T, userID uint) *models.Cart {
	c := &models.Cart{UserID: userID}
	if err := env.DB.Create(c).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return c
}
