package cart

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// SaveStatus resultado de un guardado del carrito.
type SaveStatus int

const (
	// SaveOK el documento quedó en el backend primario de la identidad.
	SaveOK SaveStatus = iota
	// SaveDegraded el backend sincronizado falló y el documento quedó
	// solo en el almacén local (modo degradado).
	SaveDegraded
)

// Gateway define el puerto de persistencia del motor del carrito.
// Load devuelve la lista de líneas de la identidad (vacía si no hay carrito).
// Save persiste la lista completa; nunca aplica escrituras parciales.
// Subscribe registra el canal push de cambios externos; el callback recibe
// la lista completa más reciente del backend.
type Gateway interface {
	Load(ctx context.Context, identity string) ([]entity.CartItem, error)
	Save(ctx context.Context, identity string, items []entity.CartItem) (SaveStatus, error)
	Subscribe(ctx context.Context, identity string, fn func([]entity.CartItem)) (repository.CartSubscription, error)
}

// Notifier colaborador de notificaciones al usuario; el motor lo invoca
// con el resultado de persistencia de cada mutación (un aviso por mutación).
type Notifier interface {
	NotifySuccess(message string)
	NotifyError(message string)
}
