package handler

import (
	"context"
	"testing"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCartThenDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice", "a@x.com")

	out, err := env.Carts.Create(ctx, CreateCartCommand{UserID: user.ID})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, user.ID, out.UserID)
	require.NotNil(t, out.User)
	assert.Equal(t, "alice", out.User.UserName)

	_, err = env.Carts.Create(ctx, CreateCartCommand{UserID: user.ID})
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateCartValidationRejectsZeroUserID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Carts.Create(context.Background(), CreateCartCommand{UserID: 0})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var count int64
	require.NoError(t, env.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateCartUnknownUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Carts.Create(context.Background(), CreateCartCommand{UserID: 42})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateCartAllowedAfterOldCartDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "bob", "b@x.com")

	first, err := env.Carts.Create(ctx, CreateCartCommand{UserID: user.ID})
	require.NoError(t, err)
	require.NoError(t, env.Carts.Delete(ctx, DeleteCartCommand{CartID: first.ID}))

	second, err := env.Carts.Create(ctx, CreateCartCommand{UserID: user.ID})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestDeleteCartSoftDeleteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "carol", "c@x.com")
	cart := env.seedCart(t, user.ID)

	require.NoError(t, env.Carts.Delete(ctx, DeleteCartCommand{CartID: cart.ID}))

	// flag set, row still physically present
	var row models.Cart
	require.NoError(t, env.DB.First(&row, cart.ID).Error)
	assert.True(t, row.IsDeleted)

	// excluded from the active listing
	all, err := env.Carts.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// lookup by id reports not-found-or-deleted
	_, err = env.Carts.GetByID(ctx, cart.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)

	// a second delete reports the same
	err = env.Carts.Delete(ctx, DeleteCartCommand{CartID: cart.ID})
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateCartReassignsOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", "a@x.com")
	bob := env.seedUser(t, "bob", "b@x.com")
	cart := env.seedCart(t, alice.ID)

	out, err := env.Carts.Update(ctx, UpdateCartCommand{CartID: cart.ID, UserID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, out.UserID)
	require.NotNil(t, out.User)
	assert.Equal(t, "bob", out.User.UserName)
	assert.Nil(t, out.User.Cart, "expanded user must not re-expand its cart")
}

func TestGetAllCartsExpandsUserOneLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "dave", "d@x.com")
	env.seedCart(t, user.ID)

	all, err := env.Carts.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "dave", all[0].User.UserName)
	assert.Nil(t, all[0].User.Cart)
}
