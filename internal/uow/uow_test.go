package uow

import (
	"context"
	"testing"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

func TestCommitPersists(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)
	defer u.Close()

	require.NoError(t, u.Begin(context.Background()))

	user := &models.User{UserName: "alice", Email: "a@x.com"}
	u.Create(user)

	affected, err := u.Complete()
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
	require.NoError(t, u.Commit())

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	require.Equal(t, "alice", got.UserName)
}

func TestRollbackDiscards(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)

	require.NoError(t, u.Begin(context.Background()))

	user := &models.User{UserName: "bob", Email: "b@x.com"}
	u.Create(user)

	_, err := u.Complete()
	require.NoError(t, err)
	require.NoError(t, u.Rollback())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCommitAndRollbackWithoutTxAreNoOps(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)

	require.NoError(t, u.Commit())
	require.NoError(t, u.Rollback())
}

func TestNestedBeginRejected(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)
	defer u.Close()

	require.NoError(t, u.Begin(context.Background()))
	require.ErrorIs(t, u.Begin(context.Background()), ErrTxAlreadyOpen)
}

func TestCompleteCountsAllPendingWrites(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)
	defer u.Close()

	require.NoError(t, u.Begin(context.Background()))

	u.Create(&models.Product{Name: "keyboard"})
	u.Create(&models.Product{Name: "mouse"})

	affected, err := u.Complete()
	require.NoError(t, err)
	require.EqualValues(t, 2, affected)
	require.NoError(t, u.Commit())

	// queue is drained, a second Complete flushes nothing
	affected, err = u.Complete()
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)
}

func TestCompleteErrorPropagatesUntranslated(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)
	defer u.Close()

	require.NoError(t, u.Begin(context.Background()))

	u.Create(&models.Product{ID: 1, Name: "first"})
	u.Create(&models.Product{ID: 1, Name: "duplicate pk"})

	_, err := u.Complete()
	require.Error(t, err)
	require.NoError(t, u.Rollback())

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCloseRollsBackOpenTx(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)

	require.NoError(t, u.Begin(context.Background()))
	u.Create(&models.Product{Name: "orphan"})
	_, err := u.Complete()
	require.NoError(t, err)

	u.Close()

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestDBReturnsTxScopedHandle(t *testing.T) {
	db := InitTestDB(t)
	u := New(db)
	defer u.Close()

	require.Same(t, db, u.DB())
	require.NoError(t, u.Begin(context.Background()))
	require.NotSame(t, db, u.DB())
}
