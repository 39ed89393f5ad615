package cart_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-api/internal/application/cart"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeGateway gateway en memoria con fallos simulables y captura del callback
// de suscripción para empujar snapshots externos en los tests.
type fakeGateway struct {
	mu       sync.Mutex
	saved    map[string][]entity.CartItem
	failSave bool
	failLoad bool
	degrade  bool
	pushFn   func([]entity.CartItem)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{saved: make(map[string][]entity.CartItem)}
}

func (g *fakeGateway) Load(_ context.Context, identity string) ([]entity.CartItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failLoad {
		return nil, domain.ErrPersistence
	}
	return append([]entity.CartItem(nil), g.saved[identity]...), nil
}

func (g *fakeGateway) Save(_ context.Context, identity string, items []entity.CartItem) (cart.SaveStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSave {
		return cart.SaveOK, domain.ErrPersistence
	}
	g.saved[identity] = append([]entity.CartItem(nil), items...)
	if g.degrade {
		return cart.SaveDegraded, nil
	}
	return cart.SaveOK, nil
}

func (g *fakeGateway) Subscribe(_ context.Context, _ string, fn func([]entity.CartItem)) (repository.CartSubscription, error) {
	g.mu.Lock()
	g.pushFn = fn
	g.mu.Unlock()
	return fakeSub{}, nil
}

// push simula un cambio externo llegando por el canal de la suscripción.
func (g *fakeGateway) push(items []entity.CartItem) {
	g.mu.Lock()
	fn := g.pushFn
	g.mu.Unlock()
	fn(items)
}

type fakeSub struct{}

func (fakeSub) Close() error { return nil }

// recorderNotifier cuenta las notificaciones por mutación.
type recorderNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recorderNotifier) NotifySuccess(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recorderNotifier) NotifyError(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recorderNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.errors)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func productoPuri() *entity.Product {
	return &entity.Product{
		ID:           "prod-puri",
		SupplierID:   "prov-7",
		SupplierName: "Distribuidora Central",
		Name:         "Puri",
		Category:     "insumos",
		UnitPrice:    dec("2"),
		UnitLabel:    "unidad",
		QuantityPrices: map[string]decimal.Decimal{
			"50 unidades": dec("75"),
		},
	}
}

func abrirCarrito(t *testing.T, gw cart.Gateway, notifier cart.Notifier, identity string) *cart.Cart {
	t.Helper()
	c := cart.NewCart(identity, gw, notifier)
	require.NoError(t, c.Open(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// AddToCart
// ──────────────────────────────────────────────────────────────────────────────

// Agregar dos veces la misma presentación fusiona en una sola línea:
// 2 + 3 paquetes de "50 unidades" → quantity 5, 250 unidades elementales.
func TestAddToCart_FusionIdempotente(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)
	item, err := c.AddToCart(ctx, productoPuri(), 3, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)

	snap := c.Snapshot()
	require.Len(t, snap, 1, "la misma clave compuesta nunca duplica líneas")
	assert.Equal(t, int64(5), item.Quantity)
	assert.Equal(t, int64(250), item.ActualQuantity)
	assert.Equal(t, item.Quantity*item.PiecesPerPackage, item.ActualQuantity,
		"actualQuantity debe ser quantity × piecesPerPackage")
	assert.True(t, item.PricePerPiece.Equal(dec("1.5")))
}

// Tipos de pedido distintos del mismo producto son líneas separadas.
func TestAddToCart_ClavesDistintasNoSeFusionan(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeUnit, "")
	require.NoError(t, err)
	_, err = c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)

	assert.Len(t, c.Snapshot(), 2)
}

// Una presentación desconocida falla en resolución y no toca el carrito
// ni genera notificaciones.
func TestAddToCart_PresentacionDesconocida(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recorderNotifier{}
	c := abrirCarrito(t, gw, notifier, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeUnit, "")
	require.NoError(t, err)
	antes := c.Snapshot()

	_, err = c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeTier, "999 unidades")
	require.ErrorIs(t, err, domain.ErrUnknownTier)

	assert.Equal(t, antes, c.Snapshot(), "el carrito queda exactamente igual")
	ok, fail := notifier.counts()
	assert.Equal(t, 1, ok, "solo la mutación exitosa notifica")
	assert.Equal(t, 0, fail, "los errores de resolución no notifican persistencia")
}

// Si el guardado falla, el estado en memoria vuelve al snapshot previo a la
// mutación y se emite exactamente una notificación de error.
func TestAddToCart_RollbackSiFallaGuardado(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recorderNotifier{}
	c := abrirCarrito(t, gw, notifier, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeUnit, "")
	require.NoError(t, err)
	antes := c.Snapshot()

	gw.failSave = true
	_, err = c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeTier, "50 unidades")
	require.ErrorIs(t, err, domain.ErrPersistence)

	assert.Equal(t, antes, c.Snapshot(), "rollback al estado previo a la mutación")
	ok, fail := notifier.counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, fail, "exactamente una notificación de error por la mutación fallida")
}

// Cantidad menor que 1 se normaliza a 1 (agregar sin cantidad = un paquete).
func TestAddToCart_CantidadMinimaUno(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")

	item, err := c.AddToCart(context.Background(), productoPuri(), 0, entity.OrderTypeUnit, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateQuantity / RemoveFromCart / ClearCart
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateQuantity_RecalculaUnidades(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	added, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)

	item, err := c.UpdateQuantity(ctx, added.CartKey, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.Quantity)
	assert.Equal(t, int64(200), item.ActualQuantity, "actualQuantity se recalcula")
}

// Cantidad cero elimina la línea: la clave desaparece del snapshot.
func TestUpdateQuantity_CeroElimina(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	added, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	_, err = c.UpdateQuantity(ctx, added.CartKey, 0)
	require.NoError(t, err)

	for _, it := range c.Snapshot() {
		assert.NotEqual(t, added.CartKey, it.CartKey, "la clave no debe estar en el snapshot")
	}
}

func TestUpdateQuantity_LineaInexistente(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")

	_, err := c.UpdateQuantity(context.Background(), "no-existe|unit", 3)
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

// Eliminar una clave ausente no es error: se reporta removed=false sin notificar.
func TestRemoveFromCart_ClaveAusente(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recorderNotifier{}
	c := abrirCarrito(t, gw, notifier, "vendor-1")

	removed, err := c.RemoveFromCart(context.Background(), "no-existe|unit")
	require.NoError(t, err)
	assert.False(t, removed)

	ok, fail := notifier.counts()
	assert.Zero(t, ok)
	assert.Zero(t, fail)
}

func TestRemoveFromCart_Elimina(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	added, err := c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	removed, err := c.RemoveFromCart(ctx, added.CartKey)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, c.Snapshot())
}

func TestClearCart(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeUnit, "")
	require.NoError(t, err)
	_, err = c.AddToCart(ctx, productoPuri(), 1, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)

	require.NoError(t, c.ClearCart(ctx))
	assert.Empty(t, c.Snapshot())
	assert.Empty(t, gw.saved["vendor-1"], "el vaciado también se persiste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Snapshot, suscripción push y carga
// ──────────────────────────────────────────────────────────────────────────────

// El snapshot es una copia: mutarlo no afecta al motor.
func TestSnapshot_EsCopia(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")

	_, err := c.AddToCart(context.Background(), productoPuri(), 2, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	snap := c.Snapshot()
	snap[0].Quantity = 999

	assert.Equal(t, int64(2), c.Snapshot()[0].Quantity)
}

// Un push de la suscripción reemplaza la lista entera: el backend es
// autoritativo y el estado optimista local se descarta.
func TestPush_ReemplazaListaCompleta(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	externo := []entity.CartItem{{
		ID:               "otro-dispositivo",
		CartKey:          "prod-x|unit",
		ProductID:        "prod-x",
		Quantity:         7,
		PiecesPerPackage: 1,
		ActualQuantity:   7,
		PackagePrice:     dec("10"),
		PricePerPiece:    dec("10"),
	}}
	gw.push(externo)

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "prod-x|unit", snap[0].CartKey, "la versión del backend sustituye la local")
}

// Si la carga inicial falla no hay estado previo: el carrito queda vacío y
// el error se propaga.
func TestOpen_FalloDeCarga(t *testing.T) {
	gw := newFakeGateway()
	gw.failLoad = true

	c := cart.NewCart("vendor-1", gw, &recorderNotifier{})
	err := c.Open(context.Background())
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, c.Snapshot())
}

// El carrito cargado al abrir es el persistido por una sesión anterior.
func TestOpen_CargaEstadoPersistido(t *testing.T) {
	gw := newFakeGateway()
	notifier := &recorderNotifier{}

	previo := abrirCarrito(t, gw, notifier, "vendor-1")
	_, err := previo.AddToCart(context.Background(), productoPuri(), 3, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)
	require.NoError(t, previo.Close())

	nuevo := abrirCarrito(t, gw, notifier, "vendor-1")
	snap := nuevo.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(3), snap[0].Quantity)
}

// El error de guardado degradado no existe: degradado sigue siendo éxito
// para el llamador (quedó durable en el almacén local).
func TestCommit_DegradadoNotificaExito(t *testing.T) {
	gw := newFakeGateway()
	gw.degrade = true
	notifier := &recorderNotifier{}
	c := abrirCarrito(t, gw, notifier, "vendor-1")

	_, err := c.AddToCart(context.Background(), productoPuri(), 1, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	ok, fail := notifier.counts()
	assert.Equal(t, 1, ok)
	assert.Zero(t, fail)
}

// Round trip por el gateway: lo guardado es exactamente lo cargado.
func TestRoundTrip_PorGateway(t *testing.T) {
	gw := newFakeGateway()
	c := abrirCarrito(t, gw, &recorderNotifier{}, "vendor-1")
	ctx := context.Background()

	_, err := c.AddToCart(ctx, productoPuri(), 2, entity.OrderTypeTier, "50 unidades")
	require.NoError(t, err)
	_, err = c.AddToCart(ctx, productoPuri(), 3, entity.OrderTypeUnit, "")
	require.NoError(t, err)

	guardado, err := gw.Load(ctx, "vendor-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, c.Snapshot(), guardado,
		"misma cardinalidad y mismos valores, independiente del orden")
}
