package handler

import (
	"context"
	"testing"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLifecyclePublishesEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Prods.Create(ctx, CreateProductCommand{Name: "keyboard"})
	require.NoError(t, err)

	_, err = env.Prods.Update(ctx, UpdateProductCommand{ProductID: created.ID, Name: "mech keyboard"})
	require.NoError(t, err)

	require.NoError(t, env.Prods.Delete(ctx, DeleteProductCommand{ProductID: created.ID}))

	events := env.Queue.byTopic(TopicProductEvents)
	require.Len(t, events, 3)
	assert.Equal(t, "product_created", events[0].Payload.(ProductEvent).Type)
	assert.Equal(t, "product_updated", events[1].Payload.(ProductEvent).Type)
	assert.Equal(t, "mech keyboard", events[1].Payload.(ProductEvent).Name)
	deleted := events[2].Payload.(ProductEvent)
	assert.Equal(t, "product_deleted", deleted.Type)
	assert.True(t, deleted.IsDeleted)
}

func TestUpdateDeletedProductNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.Prods.Create(ctx, CreateProductCommand{Name: "cable"})
	require.NoError(t, err)
	require.NoError(t, env.Prods.Delete(ctx, DeleteProductCommand{ProductID: created.ID}))

	_, err = env.Prods.Update(ctx, UpdateProductCommand{ProductID: created.ID, Name: "braided cable"})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetAllProductsExcludesDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Prods.Create(ctx, CreateProductCommand{Name: "alive"})
	require.NoError(t, err)
	gone, err := env.Prods.Create(ctx, CreateProductCommand{Name: "gone"})
	require.NoError(t, err)
	require.NoError(t, env.Prods.Delete(ctx, DeleteProductCommand{ProductID: gone.ID}))

	all, err := env.Prods.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alive", all[0].Name)
}

func TestEndToEndUserCartProductFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice, err := env.Users.Create(ctx, CreateUserCommand{UserName: "Alice", Email: "a@x.com"})
	require.NoError(t, err)

	cart, err := env.Carts.Create(ctx, CreateCartCommand{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, cart.UserID)

	_, err = env.Carts.Create(ctx, CreateCartCommand{UserID: alice.ID})
	require.ErrorIs(t, err, apperror.ErrConflict)

	product, err := env.Prods.Create(ctx, CreateProductCommand{Name: "keyboard"})
	require.NoError(t, err)

	item, err := env.Items.Create(ctx, CreateCartProductCommand{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	got, err := env.Items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	require.NotNil(t, got.Product)
	assert.Equal(t, "keyboard", got.Product.Name)
}
