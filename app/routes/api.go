// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"github.com/andreimonforte/malocozz/app/controllers"
	"github.com/andreimonforte/malocozz/app/events"
	"github.com/andreimonforte/malocozz/app/graph"
	"github.com/andreimonforte/malocozz/app/models"
	"github.com/andreimonforte/malocozz/pkg/middleware"
	"github.com/andreimonforte/malocozz/pkg/rbac"
	"github.com/andreimonforte/malocozz/pkg/router"
)

// Register mounts the public catalogue, the session cart, the
// authenticated shopper endpoints and the admin back office.
func Register(r *router.Router) {
	auth := controllers.NewAuthController()
	categories := controllers.NewCategoryController()
	products := controllers.NewProductController()
	shopCart := controllers.NewCartController()
	checkout := controllers.NewCheckoutController()
	orders := controllers.NewOrderController()
	admin := controllers.NewAdminController()
	feed := events.NewOrderFeed()

	api := r.Group("/api")

	api.Post("/register", "auth.register", auth.Register, rbac.Guest)
	api.Post("/verify-email", "auth.verify", auth.Verify)
	api.Post("/resend-code", "auth.resend", auth.ResendCode)
	api.Post("/login", "auth.login", auth.Login, rbac.Guest)
	api.Post("/admin/login", "auth.admin_login", auth.AdminLogin, rbac.Guest)
	api.Post("/logout", "auth.logout", auth.Logout)
	api.Post("/forgot-password", "auth.forgot", auth.ForgotPassword)
	api.Post("/reset-password", "auth.reset", auth.ResetPassword)

	api.Get("/categories", "categories.index", categories.Index)
	api.Get("/categories/{id}", "categories.show", categories.Show)
	api.Get("/products", "products.index", products.Index)
	api.Get("/products/{id}", "products.show", products.Show)
	api.Post("/graphql", "graphql", graph.Handler())

	// The cart is session-scoped, so guests can fill it before signing in.
	api.Get("/cart", "cart.show", shopCart.Show)
	api.Post("/cart", "cart.add", shopCart.Add)
	api.Put("/cart", "cart.update", shopCart.Update)
	api.Delete("/cart", "cart.remove", shopCart.Remove)
	api.Post("/cart/clear", "cart.clear", shopCart.Clear)

	account := api.Group("", middleware.RequireLogin)
	account.Get("/me", "auth.me", auth.Me)
	account.Post("/checkout", "checkout.place", checkout.Place)
	account.Get("/orders", "orders.index", orders.Index)
	account.Get("/orders/{id}", "orders.show", orders.Show)
	account.Post("/orders/{id}/cancel", "orders.cancel", orders.Cancel)
	account.Post("/orders/{id}/pay", "orders.pay", checkout.Pay)
	account.Post("/orders/{id}/payment/refresh", "orders.payment_refresh", checkout.RefreshPayment)

	back := api.Group("/admin", middleware.RequireLogin, rbac.HasRole(models.RoleAdmin))
	back.Get("/dashboard", "admin.dashboard", admin.Dashboard)

	back.Post("/categories", "admin.categories.store", categories.Store)
	back.Put("/categories/{id}", "admin.categories.update", categories.Update)
	back.Delete("/categories/{id}", "admin.categories.delete", categories.Delete)

	back.Post("/products", "admin.products.store", products.Store)
	back.Get("/products/export", "admin.products.export", products.ExportCSV)
	back.Put("/products/{id}", "admin.products.update", products.Update)
	back.Delete("/products/{id}", "admin.products.delete", products.Delete)
	back.Post("/products/{id}/image", "admin.products.image", products.UploadImage)

	back.Get("/orders", "admin.orders.index", orders.AdminIndex)
	back.Get("/orders/feed", "admin.orders.feed", feed.Handler())
	back.Get("/orders/{id}", "admin.orders.show", orders.AdminShow)
	back.Patch("/orders/{id}/status", "admin.orders.status", orders.UpdateStatus)
	back.Patch("/orders/{id}/payment", "admin.orders.payment", orders.UpdatePayment)

	back.Get("/users", "admin.users.index", admin.Users)
	back.Post("/users/promote", "admin.users.promote", admin.Promote)
	back.Patch("/users/{id}/active", "admin.users.active", admin.SetActive)
}
