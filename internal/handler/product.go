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

type ProductHandler struct {
	UoW   uow.Factory
	Queue Publisher
}

type CreateProductCommand struct {
	Name string `json:"name"`
}

type UpdateProductCommand struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

type DeleteProductCommand struct {
	ProductID uint `json:"product_id"`
}

func (h *ProductHandler) Create(ctx context.Context, cmd CreateProductCommand) (*vm.ProductVM, error) {
	var c validate.Checker
	c.Required("name", cmd.Name)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
	}

	product := &models.Product{Name: cmd.Name}
	u.Create(product)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	logging.FromContext(ctx).Info("product_created", "product_id", product.ID)
	publishProductEvent(ctx, h.Queue, "product_created", product)
	return vm.ProductToVM(product), nil
}

func (h *ProductHandler) Update(ctx context.Context, cmd UpdateProductCommand) (*vm.ProductVM, error) {
	var c validate.Checker
	c.ID("product_id", cmd.ProductID)
	c.Required("name", cmd.Name)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return nil, err
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

	product.Name = cmd.Name
	u.Save(&product)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return nil, err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return nil, err
	}

	publishProductEvent(ctx, h.Queue, "product_updated", &product)
	return vm.ProductToVM(&product), nil
}

func (h *ProductHandler) Delete(ctx context.Context, cmd DeleteProductCommand) error {
	var c validate.Checker
	c.ID("product_id", cmd.ProductID)
	if err := c.Err(); err != nil {
		return err
	}

	u := h.UoW.New()
	defer u.Close()
	if err := u.Begin(ctx); err != nil {
		return err
	}

	var product models.Product
	if err := u.DB().First(&product, cmd.ProductID).Error; err != nil {
		_ = u.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("product")
		}
		return err
	}
	if product.IsDeleted {
		_ = u.Rollback()
		return notFound("product")
	}

	product.IsDeleted = true
	u.Save(&product)
	if _, err := u.Complete(); err != nil {
		_ = u.Rollback()
		return err
	}
	if err := u.Commit(); err != nil {
		_ = u.Rollback()
		return err
	}

	publishProductEvent(ctx, h.Queue, "product_deleted", &product)
	return nil
}

func (h *ProductHandler) GetByID(ctx context.Context, productID uint) (*vm.ProductVM, error) {
	var c validate.Checker
	c.ID("product_id", productID)
	if err := c.Err(); err != nil {
		return nil, err
	}

	u := h.UoW.New()

	var product models.Product
	err := u.DB().WithContext(ctx).Preload("CartProducts").First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product")
		}
		return nil, err
	}
	if product.IsDeleted {
		return nil, notFound("product")
	}

	return vm.ProductToVM(&product), nil
}

func (h *ProductHandler) GetAll(ctx context.Context) ([]*vm.ProductVM, error) {
	u := h.UoW.New()

	var products []models.Product
	if err := u.DB().WithContext(ctx).Where("is_deleted = ?", false).Find(&products).Error; err != nil {
		return nil, err
	}

	out := make([]*vm.ProductVM, 0, len(products))
	for i := range products {
		out = append(out, vm.ProductToVM(&products[i]))
	}
	return out, nil
}
