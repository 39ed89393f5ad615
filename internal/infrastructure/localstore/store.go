// Package localstore implementa el backend local del carrito: un almacén en
// proceso, siempre disponible, usado por identidades anónimas y como fallback
// degradado cuando el almacén sincronizado falla.
package localstore

import (
	"context"
	"sync"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CartRepository = (*Store)(nil)

// Store almacén de documentos de carrito en memoria, protegido por RWMutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*entity.CartDocument
}

// New construye el almacén vacío.
func New() *Store {
	return &Store{docs: make(map[string]*entity.CartDocument)}
}

// Load devuelve una copia del documento de la identidad; nil si no existe.
func (s *Store) Load(_ context.Context, identity string) (*entity.CartDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[identity].Clone(), nil
}

// Save guarda una copia del documento completo (reemplazo total, nunca parcial).
func (s *Store) Save(_ context.Context, doc *entity.CartDocument) error {
	s.mu.Lock()
	s.docs[doc.Identity] = doc.Clone()
	s.mu.Unlock()
	return nil
}
