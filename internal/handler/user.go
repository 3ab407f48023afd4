package handler

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/uow"
	"github.com/Skotchmaster/shop_api/internal/validate"
	"github.com/Skotchmaster/shop_api/internal/vm"
	"gorm.io/gorm"
)

type UserHandler struct {
	UoW   uow.Factory
	Queue Publisher
}

type CreateUserCommand struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type UpdateUserCommand struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

type DeleteUserCommand struct {
	UserID uint `json:"user_id"`
}

func (h *UserHandler) Create(ctx context.Context, cmd CreateUserCommand) (*vm.UserVM, error) {
	var c validate.Checker
	c.Required("user_name", cmd.UserName)
	c.Email("email", cmd.Email)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
	}

	user := &models.User{UserName: cmd.UserName, Email: cmd.Email}
	u.Create(user)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	logging.FromContext(ctx).Info("user_created", "user_id", user.ID)
	enqueueEmail(ctx, h.Queue, TaskWelcomeEmail, user)
	return vm.UserToVM(user, true), nil
}

func (h *UserHandler) Update(ctx context.Context, cmd UpdateUserCommand) (*vm.UserVM, error) {
	var c validate.Checker
	c.ID("user_id", cmd.UserID)
	c.Required("user_name", cmd.UserName)
	c.Email("email", cmd.Email)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
	}

	var user models.User
	if err := u.DB().First(&user, cmd.UserID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	if user.IsDeleted {
		_ = u.Rollback()
		return nil, notFound("user")
	}

	user.UserName = cmd.UserName
	user.Email = cmd.Email
	u.Save(&user)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	enqueueEmail(ctx, h.Queue, TaskUpdateConfirmation, &user)
	return vm.UserToVM(&user, true), nil
}

// Delete flips the soft-delete flag; the row stays in place.
func (h *UserHandler) Delete(ctx context.Context, cmd DeleteUserCommand) error {
	var c validate.Checker
	c.ID("user_id", cmd.UserID)
	if err := c.Err(); err != nil {
		return err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return err
	}

	var user models.User
	if err := u.DB().First(&user, cmd.UserID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("user")
		}
		return err
	}
	if user.IsDeleted {
		_ = u.Rollback()
		return notFound("user")
	}

	user.IsDeleted = true
	u.Save(&user)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return err
	}

	enqueueEmail(ctx, h.Queue, TaskDeleteConfirmation, &user)
	return nil
}

func (h *UserHandler) GetByID(ctx context.Context, userID uint) (*vm.UserVM, error) {
	var c validate.Checker
	c.ID("user_id", userID)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()

	var user models.User
	err := u.DB().WithContext(ctx).Preload("Cart").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user")
		}
		return nil, err
	}
	if user.IsDeleted {
		return nil, notFound("user")
	}

	return vm.UserToVM(&user, true), nil
}

func (h *UserHandler) GetAll(ctx context.Context) ([]*vm.UserVM, error) {
	u := h.UoW.New()

	var users []models.User
	if err := u.DB().WithContext(ctx).Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make([]*vm.UserVM, 0, len(users))
	for i := range users {
		out = append(out, vm.UserToVM(&users[i], false))
	}
	return out, nil
}
