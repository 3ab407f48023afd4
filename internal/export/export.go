// Package export flattens the user/cart/product graph into tabular report
// rows and renders them as PDF or Excel byte streams.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type Row struct {
	UserName    string
	Email       string
	ProductName string
	Quantity    int
}

// Rows joins users, carts, cart products and products, skipping every
// soft-deleted row along the chain.
func Rows(ctx context.Context, db *gorm.DB) ([]Row, error) {
	var rows []Row
	err := db.WithContext(ctx).
		Table("cart_products").
		Select("users.user_name AS user_name, users.email AS email, products.name AS product_name, cart_products.quantity AS quantity").
		Joins("JOIN carts ON carts.id = cart_products.cart_id").
		Joins("JOIN users ON users.id = carts.user_id").
		Joins("JOIN products ON products.id = cart_products.product_id").
		Where("cart_products.is_deleted = ?", false).
		Where("carts.is_deleted = ?", false).
		Where("users.is_deleted = ?", false).
		Where("products.is_deleted = ?", false).
		Order("users.user_name, products.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("export rows: %w", err)
	}
	return rows, nil
}

func PDF(rows []Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "User cart product details")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		pdf.Cell(0, 8, fmt.Sprintf("%s, %s, %d, %s", r.UserName, r.ProductName, r.Quantity, r.Email))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func Excel(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"UserName", "Email", "ProductName", "Quantity"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []any{r.UserName, r.Email, r.ProductName, r.Quantity}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render excel: %w", err)
	}
	return buf.Bytes(), nil
}
