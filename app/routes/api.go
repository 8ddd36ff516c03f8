// Package routes registers the HTTP API.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/controllers"
	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/rbac"
	"github.com/shashiranjanraj/kasir/pkg/router"
)

// RegisterAPI mounts every /api route. store backs the sign-in rate limit.
func RegisterAPI(r *router.Router, db *gorm.DB, store middleware.RateStore) {
	sessions := services.NewSessionService(db)
	users := services.NewUserService(db)

	sessionController := controllers.NewSessionController(sessions, users)
	userController := controllers.NewUserController(users, sessions)
	productController := controllers.NewProductController(services.NewProductService(db))
	customerController := controllers.NewCustomerController(services.NewCustomerService(db))
	transactionController := controllers.NewTransactionController(services.NewTransactionService(db))

	api := r.Group("/api")
	api.Post("/session", "session.create", ctx.Wrap(sessionController.Login),
		middleware.RateLimit(store, "login", config.LoginRateLimitMax(), config.RateLimitWindow()))

	auth := api.Group("", middleware.Authenticate(sessions.Resolve))
	admin := auth.Group("", rbac.HasRole(string(models.LevelAdministrator)))

	// session
	auth.Get("/session", "session.show", ctx.Wrap(sessionController.Show))
	auth.Delete("/session", "session.destroy", ctx.Wrap(sessionController.Logout))

	// users
	auth.Get("/users/me", "user.me", ctx.Wrap(userController.Me))
	auth.Put("/users/{id}", "user.update", ctx.Wrap(userController.Update))
	admin.Get("/users", "user.index", ctx.Wrap(userController.Index))
	admin.Post("/users", "user.store", ctx.Wrap(userController.Store))
	admin.Delete("/users/{id}", "user.destroy", ctx.Wrap(userController.Destroy))

	// products
	auth.Get("/products", "product.index", ctx.Wrap(productController.Index))
	auth.Get("/products/{id}", "product.show", ctx.Wrap(productController.Show))
	admin.Post("/products", "product.store", ctx.Wrap(productController.Store))
	admin.Put("/products/{id}", "product.update", ctx.Wrap(productController.Update))
	admin.Delete("/products/{id}", "product.destroy", ctx.Wrap(productController.Destroy))

	// customers
	auth.Get("/customers", "customer.index", ctx.Wrap(customerController.Index))
	auth.Post("/customers", "customer.store", ctx.Wrap(customerController.Store))
	auth.Put("/customers/{id}", "customer.update", ctx.Wrap(customerController.Update))
	auth.Delete("/customers/{id}", "customer.destroy", ctx.Wrap(customerController.Destroy))

	// transactions
	auth.Get("/transactions", "transaction.index", ctx.Wrap(transactionController.Index))
	auth.Get("/transactions/{id}", "transaction.show", ctx.Wrap(transactionController.Show))
	auth.Post("/transactions", "transaction.create", ctx.Wrap(transactionController.Store))
}
