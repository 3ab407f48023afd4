// Package vm flattens the cyclic entity graph (User↔Cart↔CartProduct↔Product)
// into acyclic view models. Each conversion takes an explicit expansion flag
// and passes false one level down, so the graph is always cut at depth two no
// matter how the entities reference each other. Defaulting the flags to true
// everywhere reintroduces unbounded recursion; don't.
package vm

import "github.com/Skotchmaster/shop_api/internal/models"

type UserVM struct {
	ID        uint    `json:"id"`
	UserName  string  `json:"user_name"`
	Email     string  `json:"email"`
	IsDeleted bool    `json:"is_deleted"`
	Cart      *CartVM `json:"cart,omitempty"`
}

type ProductVM struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	IsDeleted    bool             `json:"is_deleted"`
	CartProducts []*CartProductVM `json:"cart_products"`
}

type CartVM struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	User      *UserVM          `json:"user,omitempty"`
	IsDeleted bool             `json:"is_deleted"`
	Products  []*CartProductVM `json:"products"`
}

type CartProductVM struct {
	ID        uint       `json:"id"`
	CartID    uint       `json:"cart_id"`
	ProductID uint       `json:"product_id"`
	Quantity  int        `json:"quantity"`
	IsDeleted bool       `json:"is_deleted"`
	Cart      *CartVM    `json:"cart,omitempty"`
	Product   *ProductVM `json:"product,omitempty"`
}

// UserToVM includes the user's cart only when expandCart is set; the nested
// cart never re-expands its user.
func UserToVM(u *models.User, expandCart bool) *UserVM {
	if u == nil {
		return nil
	}
	out := &UserVM{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		IsDeleted: u.IsDeleted,
	}
	if expandCart {
		out.Cart = CartToVM(u.Cart, false)
	}
	return out
}

// CartToVM includes the owning user only when expandUser is set. The line
// items are always listed, shallow.
func CartToVM(c *models.Cart, expandUser bool) *CartVM {
	if c == nil {
		return nil
	}
	out := &CartVM{
		ID:        c.ID,
		UserID:    c.UserID,
		IsDeleted: c.IsDeleted,
		Products:  make([]*CartProductVM, 0, len(c.CartProducts)),
	}
	if expandUser {
		out.User = UserToVM(c.User, false)
	}
	for i := range c.CartProducts {
		out.Products = append(out.Products, CartProductToVM(&c.CartProducts[i], false))
	}
	return out
}

func ProductToVM(p *models.Product) *ProductVM {
	if p == nil {
		return nil
	}
	out := &ProductVM{
		ID:           p.ID,
		Name:         p.Name,
		IsDeleted:    p.IsDeleted,
		CartProducts: make([]*CartProductVM, 0, len(p.CartProducts)),
	}
	for i := range p.CartProducts {
		out.CartProducts = append(out.CartProducts, CartProductToVM(&p.CartProducts[i], false))
	}
	return out
}

// CartProductToVM always carries the scalar fields. With deepMap it expands
// the full cart (user included) and product one level; list mappers pass
// false, single-row results pass true.
func CartProductToVM(cp *models.CartProduct, deepMap bool) *CartProductVM {
	if cp == nil {
		return nil
	}
	out := &CartProductVM{
		ID:        cp.ID,
		CartID:    cp.CartID,
		ProductID: cp.ProductID,
		Quantity:  cp.Quantity,
		IsDeleted: cp.IsDeleted,
	}
	if deepMap {
		out.Cart = CartToVM(cp.Cart, true)
		out.Product = ProductToVM(cp.Product)
	}
	return out
}
