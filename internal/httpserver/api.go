package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Skotchmaster/shop_api/internal/apperror"
	"github.com/Skotchmaster/shop_api/internal/export"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &apperror.ValidationError{Fields: []apperror.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		}}
	}
	return uint(id), nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *Deps) register(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	acct, err := d.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": acct.ID, "email": acct.Email})
}

func (d *Deps) login(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	token, err := d.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": token})
}

func (d *Deps) confirmAccount(c echo.Context) error {
	id, err := strconv.ParseUint(c.QueryParam("userId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "userId must be a positive integer"})
	}

	if err := d.Auth.Confirm(c.Request().Context(), uint(id), c.QueryParam("token")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "confirmed"})
}

func (d *Deps) createUser(c echo.Context) error {
	var cmd handler.CreateUserCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	out, err := d.Users.Create(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (d *Deps) updateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var cmd handler.UpdateUserCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cmd.UserID = id

	out, err := d.Users.Update(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := d.Users.Delete(c.Request().Context(), handler.DeleteUserCommand{UserID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (d *Deps) getUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := d.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) getUsers(c echo.Context) error {
	out, err := d.Users.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) createProduct(c echo.Context) error {
	var cmd handler.CreateProductCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	out, err := d.Products.Create(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (d *Deps) updateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var cmd handler.UpdateProductCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cmd.ProductID = id

	out, err := d.Products.Update(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) deleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := d.Products.Delete(c.Request().Context(), handler.DeleteProductCommand{ProductID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (d *Deps) getProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := d.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) getProducts(c echo.Context) error {
	out, err := d.Products.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) searchProducts(c echo.Context) error {
	if d.ES == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "search is not configured"})
	}

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
	}
	from, size := paginate(c.QueryParam("page"), c.QueryParam("size"))

	total, hits, err := search.Search(c.Request().Context(), d.ES, d.ESIndex, query, from, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"total": total, "hits": hits})
}

func paginate(pageStr, sizeStr string) (from, size int) {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(sizeStr)
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

func (d *Deps) createCart(c echo.Context) error {
	var cmd handler.CreateCartCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	out, err := d.Carts.Create(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (d *Deps) updateCart(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var cmd handler.UpdateCartCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cmd.CartID = id

	out, err := d.Carts.Update(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) deleteCart(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := d.Carts.Delete(c.Request().Context(), handler.DeleteCartCommand{CartID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (d *Deps) getCart(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := d.Carts.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) getCarts(c echo.Context) error {
	out, err := d.Carts.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) createCartProduct(c echo.Context) error {
	var cmd handler.CreateCartProductCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	out, err := d.CartProducts.Create(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (d *Deps) updateCartProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	var cmd handler.UpdateCartProductCommand
	if err := c.Bind(&cmd); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	cmd.CartProductID = id

	out, err := d.CartProducts.Update(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) deleteCartProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := d.CartProducts.Delete(c.Request().Context(), handler.DeleteCartProductCommand{CartProductID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (d *Deps) getCartProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := d.CartProducts.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) getCartProducts(c echo.Context) error {
	out, err := d.CartProducts.GetAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (d *Deps) exportPDF(c echo.Context) error {
	rows, err := export.Rows(c.Request().Context(), d.DB)
	if err != nil {
		return writeError(c, err)
	}

	data, err := export.PDF(rows)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="carts.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func (d *Deps) exportExcel(c echo.Context) error {
	rows, err := export.Rows(c.Request().Context(), d.DB)
	if err != nil {
		return writeError(c, err)
	}

	data, err := export.Excel(rows)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="carts.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
