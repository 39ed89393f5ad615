package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-api/internal/application/cart"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CartManager *cart.Manager
	ProductUC   *usecase.ProductUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo (público, solo lectura)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Carrito: identidad del Bearer Token si lo hay; anónima si no
	cartGroup := api.Group("/cart", IdentityMiddleware(deps.JWTSecret))
	cartHandler := NewCartHandler(deps.CartManager, deps.ProductUC)
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:key", cartHandler.UpdateQuantity)
	cartGroup.Delete("/items/:key", cartHandler.RemoveItem)
	cartGroup.Delete("/session", cartHandler.ReleaseSession)
}
