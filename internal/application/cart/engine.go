// Package cart implementa el motor de carrito del marketplace: lista
// autoritativa de líneas en memoria por identidad, fusión idempotente por
// clave compuesta, persistencia con rollback y canal push de cambios externos.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/pricing"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// Cart es el dueño único de la lista de líneas de una identidad.
// Todas las operaciones se serializan con un mutex explícito (un solo
// escritor lógico); la suscripción push puede reemplazar la lista entera
// en cualquier momento y su versión es siempre la autoritativa.
type Cart struct {
	mu       sync.Mutex
	identity string
	items    []entity.CartItem

	gateway  Gateway
	notifier Notifier
	sub      repository.CartSubscription

	now   func() time.Time
	newID func() string
}

// NewCart construye el motor para una identidad. Llamar Open antes de usarlo.
func NewCart(identity string, gateway Gateway, notifier Notifier) *Cart {
	if identity == "" {
		identity = entity.AnonymousIdentity
	}
	return &Cart{
		identity: identity,
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Open carga el carrito persistido de la identidad y registra la suscripción
// a cambios externos. Si la carga falla, el carrito queda vacío y el error
// se propaga (no hay estado previo que restaurar).
func (c *Cart) Open(ctx context.Context) error {
	items, err := c.gateway.Load(ctx, c.identity)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	sub, err := c.gateway.Subscribe(ctx, c.identity, c.replaceAll)
	if err != nil {
		return err
	}
	c.sub = sub
	return nil
}

// Close cierra la suscripción push. Obligatorio antes de cambiar de identidad
// para no actuar sobre una identidad obsoleta.
func (c *Cart) Close() error {
	if c.sub == nil {
		return nil
	}
	err := c.sub.Close()
	c.sub = nil
	return err
}

// Identity devuelve la identidad dueña del carrito.
func (c *Cart) Identity() string { return c.identity }

// AddToCart resuelve la selección de precio y agrega la línea al carrito.
// Si ya existe una línea con la misma clave compuesta, incrementa su cantidad
// (fusión idempotente); nunca crea líneas duplicadas. Los errores de resolución
// no tocan el estado del carrito.
func (c *Cart) AddToCart(ctx context.Context, product *entity.Product, quantity int64, orderType, tierLabel string) (entity.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	if tierLabel != "" {
		orderType = entity.OrderTypeTier
	} else if orderType != entity.OrderTypeBulk {
		// Sin presentación solo existen unit y bulk; tier sin etiqueta no es válido
		orderType = entity.OrderTypeUnit
	}

	resolved, err := pricing.Resolve(product, orderType, tierLabel)
	if err != nil {
		return entity.CartItem{}, err
	}
	key := entity.CartKeyFor(product.ID, orderType, tierLabel)

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := cloneItems(c.items)

	idx := c.indexOf(key)
	if idx >= 0 {
		c.items[idx].Quantity += quantity
		c.items[idx].ActualQuantity = c.items[idx].Quantity * c.items[idx].PiecesPerPackage
	} else {
		c.items = append(c.items, entity.CartItem{
			ID:                c.newID(),
			CartKey:           key,
			ProductID:         product.ID,
			DisplayName:       resolved.DisplayName,
			OrderType:         orderType,
			QuantityTierLabel: tierLabel,
			Quantity:          quantity,
			PiecesPerPackage:  resolved.PiecesPerPackage,
			ActualQuantity:    quantity * resolved.PiecesPerPackage,
			PackagePrice:      resolved.PackagePrice,
			PricePerPiece:     resolved.PricePerPiece,
			UnitLabel:         resolved.UnitLabel,
			OriginalUnitLabel: product.UnitLabel,
			SupplierID:        product.SupplierID,
			SupplierName:      product.SupplierName,
			Category:          product.Category,
			AddedAt:           c.now(),
		})
		idx = len(c.items) - 1
	}

	if err := c.commit(ctx, prev, fmt.Sprintf("%s agregado al carrito", resolved.DisplayName)); err != nil {
		return entity.CartItem{}, err
	}
	return c.items[idx], nil
}

// UpdateQuantity fija la cantidad de paquetes de una línea y recalcula las
// unidades elementales. Una cantidad ≤ 0 elimina la línea en vez de guardar
// un valor no positivo.
func (c *Cart) UpdateQuantity(ctx context.Context, cartKey string, newQuantity int64) (entity.CartItem, error) {
	if newQuantity <= 0 {
		_, err := c.RemoveFromCart(ctx, cartKey)
		return entity.CartItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(cartKey)
	if idx < 0 {
		return entity.CartItem{}, domain.ErrLineNotFound
	}
	prev := cloneItems(c.items)
	c.items[idx].Quantity = newQuantity
	c.items[idx].ActualQuantity = newQuantity * c.items[idx].PiecesPerPackage

	if err := c.commit(ctx, prev, "cantidad actualizada"); err != nil {
		return entity.CartItem{}, err
	}
	return c.items[idx], nil
}

// RemoveFromCart elimina la línea con la clave dada. Una clave ausente no es
// error: se reporta removed=false sin tocar el estado ni notificar.
func (c *Cart) RemoveFromCart(ctx context.Context, cartKey string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(cartKey)
	if idx < 0 {
		return false, nil
	}
	prev := cloneItems(c.items)
	c.items = append(c.items[:idx], c.items[idx+1:]...)

	if err := c.commit(ctx, prev, "producto eliminado del carrito"); err != nil {
		return false, err
	}
	return true, nil
}

// ClearCart vacía el carrito completo.
func (c *Cart) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := cloneItems(c.items)
	c.items = nil
	return c.commit(ctx, prev, "carrito vaciado")
}

// Snapshot devuelve una copia de la lista de líneas; el llamador no debe
// mutarla (y aunque lo haga, no afecta al motor).
func (c *Cart) Snapshot() []entity.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Summary calcula los totales del carrito sobre el estado actual.
func (c *Cart) Summary() pricing.Summary {
	return pricing.Summarize(c.Snapshot())
}

// commit persiste la lista completa. Con fallo de persistencia restaura el
// estado previo a la mutación y propaga; el resultado produce exactamente una
// notificación (éxito o error) por mutación. Llamar con el mutex tomado.
func (c *Cart) commit(ctx context.Context, prev []entity.CartItem, successMsg string) error {
	_, err := c.gateway.Save(ctx, c.identity, cloneItems(c.items))
	if err != nil {
		c.items = prev
		c.notifier.NotifyError("no se pudo guardar el carrito")
		return fmt.Errorf("guardar carrito: %w", err)
	}
	c.notifier.NotifySuccess(successMsg)
	return nil
}

// replaceAll reemplaza la lista entera con la versión del backend (push de la
// suscripción). El backend es autoritativo: el estado optimista local se
// descarta, no se fusiona.
func (c *Cart) replaceAll(items []entity.CartItem) {
	c.mu.Lock()
	c.items = cloneItems(items)
	c.mu.Unlock()
}

// indexOf busca una línea por clave compuesta. Llamar con el mutex tomado.
func (c *Cart) indexOf(cartKey string) int {
	for i := range c.items {
		if c.items[i].CartKey == cartKey {
			return i
		}
	}
	return -1
}

func cloneItems(items []entity.CartItem) []entity.CartItem {
	if items == nil {
		return nil
	}
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out
}
