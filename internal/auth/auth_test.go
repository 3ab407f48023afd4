package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeQueue struct {
	tasks []handler.EmailTask
}

func (f *fakeQueue) PublishEvent(_ context.Context, _, _ string, event any) error {
	if task, ok := event.(handler.EmailTask); ok {
		f.tasks = append(f.tasks, task)
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeQueue) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	queue := &fakeQueue{}
	return &Service{DB: db, JWTSecret: []byte("test-jwt-secret"), Queue: queue}, queue
}

func TestRegisterCreatesAccountAndEnqueuesWelcome(t *testing.T) {
	svc, queue := newTestService(t)
	ctx := context.Background()

	acct, err := svc.Register(ctx, "a@x.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "user", acct.Role)
	assert.False(t, acct.Confirmed)
	assert.NotEmpty(t, acct.ConfirmationToken)
	assert.NotEqual(t, "password", acct.PasswordHash)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, handler.TaskWelcomeEmail, queue.tasks[0].Type)
	assert.Equal(t, acct.ConfirmationToken, queue.tasks[0].Token)

	_, err = svc.Register(ctx, "a@x.com", "other")
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLoginIssuesTokenWithExpectedClaims(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acct, err := svc.Register(ctx, "b@x.com", "secret")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "b@x.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ClaimsFromToken(token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, acct.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(accessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "c@x.com", "right")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "c@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "right")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConfirmConsumesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acct, err := svc.Register(ctx, "d@x.com", "secret")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Confirm(ctx, acct.ID, "wrong-token"), ErrInvalidToken)
	require.NoError(t, svc.Confirm(ctx, acct.ID, acct.ConfirmationToken))

	var got models.Account
	require.NoError(t, svc.DB.First(&got, acct.ID).Error)
	assert.True(t, got.Confirmed)
	assert.Empty(t, got.ConfirmationToken)

	// token is single-use
	require.ErrorIs(t, svc.Confirm(ctx, acct.ID, acct.ConfirmationToken), ErrInvalidToken)
}

func TestConfirmExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	acct, err := svc.Register(ctx, "e@x.com", "secret")
	require.NoError(t, err)

	acct.TokenExpiry = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, svc.DB.Save(acct).Error)

	require.ErrorIs(t, svc.Confirm(ctx, acct.ID, acct.ConfirmationToken), ErrInvalidToken)
}
