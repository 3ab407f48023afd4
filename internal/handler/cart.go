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

type CartHandler struct {
	UoW uow.Factory
}

type CreateCartCommand struct {
	UserID uint `json:"user_id"`
}

type UpdateCartCommand struct {
	CartID uint `json:"cart_id"`
	UserID uint `json:"user_id"`
}

type DeleteCartCommand struct {
	CartID uint `json:"cart_id"`
}

// Create fails with a conflict when the user already owns an active cart.
func (h *CartHandler) Create(ctx context.Context, cmd CreateCartCommand) (*vm.CartVM, error) {
	var c validate.Checker
	c.ID("user_id", cmd.UserID)
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

	var existing models.Cart
	err := u.DB().Where("user_id = ? AND is_deleted = ?", cmd.UserID, false).First(&existing).Error
	switch {
	case err == nil:
		_ = u.Rollback()
		return nil, conflict("user already has an active cart")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		_ = u.Rollback()
		return nil, err
	}

	cart := &models.Cart{UserID: cmd.UserID}
	u.Create(cart)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	logging.FromContext(ctx).Info("cart_created", "cart_id", cart.ID, "user_id", cart.UserID)
	cart.User = &user
	return vm.CartToVM(cart, true), nil
}

func (h *CartHandler) Update(ctx context.Context, cmd UpdateCartCommand) (*vm.CartVM, error) {
	var c validate.Checker
	c.ID("cart_id", cmd.CartID)
	c.ID("user_id", cmd.UserID)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := u.DB().First(&cart, cmd.CartID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart")
		}
		return nil, err
	}
	if cart.IsDeleted {
		_ = u.Rollback()
		return nil, notFound("cart")
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

	cart.UserID = cmd.UserID
	u.Save(&cart)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	cart.User = &user
	return vm.CartToVM(&cart, true), nil
}

func (h *CartHandler) Delete(ctx context.Context, cmd DeleteCartCommand) error {
	var c validate.Checker
	c.ID("cart_id", cmd.CartID)
	if err := c.Err(); err != nil {
		return err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return err
	}

	var cart models.Cart
	if err := u.DB().First(&cart, cmd.CartID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("cart")
		}
		return err
	}
	if cart.IsDeleted {
		_ = u.Rollback()
		return notFound("cart")
	}

	cart.IsDeleted = true
	u.Save(&cart)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return err
	}

	return nil
}

func (h *CartHandler) GetByID(ctx context.Context, cartID uint) (*vm.CartVM, error) {
	var c validate.Checker
	c.ID("cart_id", cartID)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()

	var cart models.Cart
	err := u.DB().WithContext(ctx).Preload("User").Preload("CartProducts").First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart")
		}
		return nil, err
	}
	if cart.IsDeleted {
		return nil, notFound("cart")
	}

	return vm.CartToVM(&cart, true), nil
}

func (h *CartHandler) GetAll(ctx context.Context) ([]*vm.CartVM, error) {
	u := h.UoW.New()

	var carts []models.Cart
	err := u.DB().WithContext(ctx).Preload("User").Where("is_deleted = ?", false).Find(&carts).Error
	if err != nil {
		return nil, err
	}

	out := make([]*vm.CartVM, 0, len(carts))
	for i := range carts {
		out = append(out, vm.CartToVM(&carts[i], true))
	}
	return out, nil
}
