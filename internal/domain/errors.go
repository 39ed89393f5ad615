package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidProduct = errors.New("producto sin identificador")
	ErrUnknownTier    = errors.New("presentación no disponible para el producto")
	ErrLineNotFound   = errors.New("línea no encontrada en el carrito")
	ErrPersistence    = errors.New("error de persistencia del carrito")
	ErrUnauthorized   = errors.New("no autorizado")
)
