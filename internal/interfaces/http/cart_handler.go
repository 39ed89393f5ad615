package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-api/internal/application/cart"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// CartHandler maneja las peticiones HTTP del carrito. La identidad viene del
// IdentityMiddleware (anónima o autenticada).
type CartHandler struct {
	manager   *cart.Manager
	productUC *usecase.ProductUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(manager *cart.Manager, productUC *usecase.ProductUseCase) *CartHandler {
	return &CartHandler{manager: manager, productUC: productUC}
}

// Get godoc
// @Summary      Obtener el carrito con totales
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	engine, err := h.engine(c)
	if err != nil {
		return persistenceError(c, err)
	}
	return c.JSON(toCartResponse(engine))
}

// AddItem godoc
// @Summary      Agregar un producto al carrito
// @Description  Con quantity_tier_label se cobra la presentación con nombre; una clave ya presente fusiona incrementando la cantidad.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddItemRequest  true  "Selección de producto y presentación"
// @Success      201   {object}  dto.CartItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}

	product, err := h.productUC.Descriptor(c.Context(), in.ProductID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}

	engine, err := h.engine(c)
	if err != nil {
		return persistenceError(c, err)
	}
	item, err := engine.AddToCart(c.Context(), product, in.Quantity, in.OrderType, in.QuantityTierLabel)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownTier):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_TIER", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidProduct):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRODUCT", Message: err.Error()})
		default:
			return persistenceError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(toCartItemResponse(item))
}

// UpdateQuantity godoc
// @Summary      Fijar la cantidad de una línea
// @Description  Cantidad ≤ 0 elimina la línea en vez de guardar un valor no positivo.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string                     true  "cart_key de la línea"
// @Param        body  body  dto.UpdateQuantityRequest  true  "Nueva cantidad de paquetes"
// @Success      200   {object}  dto.CartItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/cart/items/{key} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	key := c.Params("key")
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	engine, err := h.engine(c)
	if err != nil {
		return persistenceError(c, err)
	}
	// Cantidad ≤ 0 delega en la eliminación y reporta el resultado real
	if in.Quantity <= 0 {
		removed, err := engine.RemoveFromCart(c.Context(), key)
		if err != nil {
			return persistenceError(c, err)
		}
		return c.JSON(dto.RemoveItemResponse{Removed: removed, CartKey: key})
	}
	item, err := engine.UpdateQuantity(c.Context(), key, in.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrLineNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LINE_NOT_FOUND", Message: err.Error()})
		}
		return persistenceError(c, err)
	}
	return c.JSON(toCartItemResponse(item))
}

// RemoveItem godoc
// @Summary      Eliminar una línea del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "cart_key de la línea"
// @Success      200  {object}  dto.RemoveItemResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{key} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	key := c.Params("key")
	engine, err := h.engine(c)
	if err != nil {
		return persistenceError(c, err)
	}
	removed, err := engine.RemoveFromCart(c.Context(), key)
	if err != nil {
		return persistenceError(c, err)
	}
	return c.JSON(dto.RemoveItemResponse{Removed: removed, CartKey: key})
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	engine, err := h.engine(c)
	if err != nil {
		return persistenceError(c, err)
	}
	if err := engine.ClearCart(c.Context()); err != nil {
		return persistenceError(c, err)
	}
	return c.JSON(toCartResponse(engine))
}

// ReleaseSession godoc
// @Summary      Liberar la sesión del carrito
// @Description  Cierra la suscripción push de la identidad; llamar en logout antes de recargar con otra identidad.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      204
// @Router       /api/cart/session [delete]
func (h *CartHandler) ReleaseSession(c *fiber.Ctx) error {
	if err := h.manager.Release(GetIdentity(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) engine(c *fiber.Ctx) (*cart.Cart, error) {
	return h.manager.Get(c.Context(), GetIdentity(c))
}

func persistenceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrPersistence) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toCartResponse(engine *cart.Cart) dto.CartResponse {
	items := engine.Snapshot()
	out := dto.CartResponse{
		Identity: engine.Identity(),
		Items:    make([]dto.CartItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, toCartItemResponse(it))
	}
	s := engine.Summary()
	out.Summary = dto.CartSummaryResponse{
		Subtotal:  s.Subtotal,
		Tax:       s.Tax,
		Total:     s.Total,
		ItemCount: s.ItemCount,
	}
	return out
}

func toCartItemResponse(it entity.CartItem) dto.CartItemResponse {
	return dto.CartItemResponse{
		ID:                it.ID,
		CartKey:           it.CartKey,
		ProductID:         it.ProductID,
		DisplayName:       it.DisplayName,
		OrderType:         it.OrderType,
		QuantityTierLabel: it.QuantityTierLabel,
		Quantity:          it.Quantity,
		PiecesPerPackage:  it.PiecesPerPackage,
		ActualQuantity:    it.ActualQuantity,
		PackagePrice:      it.PackagePrice,
		PricePerPiece:     it.PricePerPiece,
		UnitLabel:         it.UnitLabel,
		SupplierID:        it.SupplierID,
		SupplierName:      it.SupplierName,
		Category:          it.Category,
		LineTotal:         it.LineTotal(),
		AddedAt:           it.AddedAt,
	}
}
