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

type CartProductHandler struct {
	UoW uow.Factory
}

type CreateCartProductCommand struct {
	CartID    uint `json:"cart_id"`
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartProductCommand struct {
	CartProductID uint `json:"cart_product_id"`
	NewCartID     uint `json:"new_cart_id"`
	NewProductID  uint `json:"new_product_id"`
	Quantity      int  `json:"quantity"`
}

type DeleteCartProductCommand struct {
	CartProductID uint `json:"cart_product_id"`
}

// Create fails with a conflict when the cart already holds an active row for
// the same product.
func (h *CartProductHandler) Create(ctx context.Context, cmd CreateCartProductCommand) (*vm.CartProductVM, error) {
	var c validate.Checker
	c.ID("cart_id", cmd.CartID)
	c.ID("product_id", cmd.ProductID)
	c.Positive("quantity", cmd.Quantity)
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

	var product models.Product
	if err := u.DB().First(&product, cmd.ProductID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product")
		}
		return nil, err
	}
	if product.IsDeleted {
		_ = u.Rollback()
		return nil, notFound("product")
	}

	var existing models.CartProduct
	err := u.DB().
		Where("cart_id = ? AND product_id = ? AND is_deleted = ?", cmd.CartID, cmd.ProductID, false).
		First(&existing).Error
	switch {
	case err == nil:
		_ = u.Rollback()
		return nil, conflict("product is already in the cart")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		_ = u.Rollback()
		return nil, err
	}

	cp := &models.CartProduct{
		CartID:    cmd.CartID,
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
	}
	u.Create(cp)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	logging.FromContext(ctx).Info("cart_product_created", "cart_product_id", cp.ID)
	return h.reloadDeep(ctx, u, cp.ID)
}

func (h *CartProductHandler) Update(ctx context.Context, cmd UpdateCartProductCommand) (*vm.CartProductVM, error) {
	var c validate.Checker
	c.ID("cart_product_id", cmd.CartProductID)
	c.ID("new_cart_id", cmd.NewCartID)
	c.ID("new_product_id", cmd.NewProductID)
	c.Positive("quantity", cmd.Quantity)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
	}

	var cp models.CartProduct
	if err := u.DB().First(&cp, cmd.CartProductID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart product")
		}
		return nil, err
	}
	if cp.IsDeleted {
		_ = u.Rollback()
		return nil, notFound("cart product")
	}

	cp.CartID = cmd.NewCartID
	cp.ProductID = cmd.NewProductID
	cp.Quantity = cmd.Quantity
	u.Save(&cp)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	return h.reloadDeep(ctx, u, cp.ID)
}

func (h *CartProductHandler) Delete(ctx context.Context, cmd DeleteCartProductCommand) error {
	var c validate.Checker
	c.ID("cart_product_id", cmd.CartProductID)
	if err := c.Err(); err != nil {
		return err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return err
	}

	var cp models.CartProduct
	if err := u.DB().First(&cp, cmd.CartProductID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("cart product")
		}
		return err
	}
	if cp.IsDeleted {
		_ = u.Rollback()
		return notFound("cart product")
	}

	cp.IsDeleted = true
	u.Save(&cp)
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

func (h *CartProductHandler) GetByID(ctx context.Context, cartProductID uint) (*vm.CartProductVM, error) {
	var c validate.Checker
	c.ID("cart_product_id", cartProductID)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	return h.reloadDeep(ctx, u, cartProductID)
}

// GetAll lists active rows shallow; expanding every entry's cart and product
// subgraph is exactly what the deep-map flag is there to avoid.
func (h *CartProductHandler) GetAll(ctx context.Context) ([]*vm.CartProductVM, error) {
	u := h.UoW.New()

	var items []models.CartProduct
	if err := u.DB().WithContext(ctx).Where("is_deleted = ?", false).Find(&items).Error; err != nil {
		return nil, err
	}

	out := make([]*vm.CartProductVM, 0, len(items))
	for i := range items {
		out = append(out, vm.CartProductToVM(&items[i], false))
	}
	return out, nil
}

// reloadDeep fetches the row with its cart (user included) and product and
// maps it with deep expansion, the shape single-row operations return.
func (h *CartProductHandler) reloadDeep(ctx context.Context, u *uow.UnitOfWork, id uint) (*vm.CartProductVM, error) {
	var cp models.CartProduct
	err := u.DB().WithContext(ctx).
		Preload("Cart.User").
		Preload("Product").
		First(&cp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("cart product")
		}
		return nil, err
	}
	if cp.IsDeleted {
		return nil, notFound("cart product")
	}

	return vm.CartProductToVM(&cp, true), nil
}
