// Package httpserver exposes the API over echo, translating requests into
// handler commands and domain errors into status codes.
package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/handler"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB *gorm.DB

	Users        *handler.UserHandler
	Products     *handler.ProductHandler
	Carts        *handler.CartHandler
	CartProducts *handler.CartProductHandler

	Auth *auth.Service

	ES      *elasticsearch.Client
	ESIndex string

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/register", d.register)
	api.POST("/login", d.login)
	api.GET("/users/confirm", d.confirmAccount)
	api.GET("/users/confirmUpdate", acknowledge)
	api.GET("/users/confirmDelete", acknowledge)

	api.GET("/products", d.getProducts)
	api.GET("/products/search", d.searchProducts)
	api.GET("/products/:id", d.getProduct)

	secured := api.Group("", JWTAuth(d.JWTSecret))

	secured.POST("/users", d.createUser)
	secured.GET("/users", d.getUsers)
	secured.GET("/users/:id", d.getUser)
	secured.PUT("/users/:id", d.updateUser)
	secured.DELETE("/users/:id", d.deleteUser)

	secured.POST("/products", d.createProduct)
	secured.PUT("/products/:id", d.updateProduct)
	secured.DELETE("/products/:id", d.deleteProduct)

	secured.POST("/carts", d.createCart)
	secured.GET("/carts", d.getCarts)
	secured.GET("/carts/:id", d.getCart)
	secured.PUT("/carts/:id", d.updateCart)
	secured.DELETE("/carts/:id", d.deleteCart)

	secured.POST("/cartproducts", d.createCartProduct)
	secured.GET("/cartproducts", d.getCartProducts)
	secured.GET("/cartproducts/:id", d.getCartProduct)
	secured.PUT("/cartproducts/:id", d.updateCartProduct)
	secured.DELETE("/cartproducts/:id", d.deleteCartProduct)

	secured.GET("/export/carts.pdf", d.exportPDF)
	secured.GET("/export/carts.xlsx", d.exportExcel)
}

func acknowledge(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "acknowledged"})
}
