package cart

import (
	"context"
	"sync"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// Manager registra un motor de carrito por identidad: lo crea y carga de forma
// perezosa en el primer acceso y cierra su suscripción al liberar la sesión.
// El colaborador de identidad debe llamar Release al cambiar de identidad
// (logout) antes de volver a cargar con la nueva.
type Manager struct {
	mu       sync.Mutex
	gateway  Gateway
	notifier Notifier
	engines  map[string]*Cart
}

// NewManager construye el registro de motores.
func NewManager(gateway Gateway, notifier Notifier) *Manager {
	return &Manager{
		gateway:  gateway,
		notifier: notifier,
		engines:  make(map[string]*Cart),
	}
}

// Get devuelve el motor de la identidad, creándolo y abriéndolo si no existe.
func (m *Manager) Get(ctx context.Context, identity string) (*Cart, error) {
	if identity == "" {
		identity = entity.AnonymousIdentity
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.engines[identity]; ok {
		return c, nil
	}
	c := NewCart(identity, m.gateway, m.notifier)
	if err := c.Open(ctx); err != nil {
		return nil, err
	}
	m.engines[c.Identity()] = c
	return c, nil
}

// Release cierra la suscripción del motor de la identidad y lo descarta.
// Liberar una identidad sin motor no es error.
func (m *Manager) Release(identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.engines[identity]
	if !ok {
		return nil
	}
	delete(m.engines, identity)
	return c.Close()
}

// Close libera todos los motores (apagado del servicio).
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for id, c := range m.engines {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.engines, id)
	}
	return firstErr
}
