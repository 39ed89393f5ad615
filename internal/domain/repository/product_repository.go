package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos.
// El catálogo pertenece a un colaborador externo; el motor del carrito
// solo lee descriptores y nunca los muta.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
