package controllers

import (
	"github.com/shashiranjanraj/kasir/app/resources"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

// ─── Products ────────────────────────────────────────────────────────────────

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.products.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewProducts(products))
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	product, err := pc.products.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewProduct(product))
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in ProductRequest
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.products.Create(c.Context(), productInput(in))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.NewProduct(product))
}

// Update sets name, price and an absolute stock level.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in ProductRequest
	if !c.BindJSON(&in) {
		return
	}
	product, err := pc.products.Update(c.Context(), id, productInput(in))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewProduct(product))
}

// Destroy archives the product.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := pc.products.Archive(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Product archived")
}

func productInput(in ProductRequest) services.ProductInput {
	return services.ProductInput{Name: in.Name, Price: *in.Price, Stock: in.Stock}
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerController struct {
	customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

func (cc *CustomerController) Index(c *ctx.Context) {
	customers, err := cc.customers.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewCustomers(customers))
}

func (cc *CustomerController) Store(c *ctx.Context) {
	var in CustomerRequest
	if !c.BindJSON(&in) {
		return
	}
	customer, err := cc.customers.Create(c.Context(), customerInput(in))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.NewCustomer(customer))
}

func (cc *CustomerController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in CustomerRequest
	if !c.BindJSON(&in) {
		return
	}
	customer, err := cc.customers.Update(c.Context(), id, customerInput(in))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewCustomer(customer))
}

// Destroy deletes the customer; their sales stay, detached.
func (cc *CustomerController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	if err := cc.customers.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Customer deleted")
}

func customerInput(in CustomerRequest) services.CustomerInput {
	return services.CustomerInput{Name: in.Name, Address: in.Address, PhoneNumber: in.PhoneNumber}
}
