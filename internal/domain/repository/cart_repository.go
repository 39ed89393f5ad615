package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia del documento de carrito (DIP).
// Save escribe siempre el documento completo: o se guarda todo o no se guarda nada.
// Load devuelve nil (sin error) cuando la identidad no tiene carrito guardado.
type CartRepository interface {
	Load(ctx context.Context, identity string) (*entity.CartDocument, error)
	Save(ctx context.Context, doc *entity.CartDocument) error
}

// CartSubscription suscripción viva al canal de cambios de un carrito.
// Debe cerrarse al terminar la sesión o al cambiar de identidad.
type CartSubscription interface {
	Close() error
}

// CartFeed define el canal push de cambios externos del carrito sincronizado.
// El callback recibe el documento completo más reciente del backend (incluye
// cambios hechos desde otros dispositivos); el consumidor lo trata como
// estado autoritativo y reemplaza su lista entera.
type CartFeed interface {
	Publish(ctx context.Context, doc *entity.CartDocument) error
	Subscribe(ctx context.Context, identity string, fn func(*entity.CartDocument)) (CartSubscription, error)
}
