package usecase

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// ProductUseCase lectura del catálogo de productos. El catálogo pertenece a un
// colaborador externo; aquí no hay creación ni edición.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Descriptor obtiene el descriptor de dominio por ID (para el Pricing
// Resolver). nil si no existe.
func (uc *ProductUseCase) Descriptor(ctx context.Context, id string) (*entity.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// GetByID obtiene un descriptor de producto por ID. nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	out := toProductResponse(product)
	return &out, nil
}

// List lista descriptores con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: page}, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		SupplierName:    p.SupplierName,
		Name:            p.Name,
		Category:        p.Category,
		UnitPrice:       p.UnitPrice,
		BulkPrice:       p.BulkPrice,
		UnitLabel:       p.UnitLabel,
		BulkUnitLabel:   p.BulkUnitLabel,
		MinBulkQuantity: p.MinBulkQuantity,
		QuantityPrices:  p.QuantityPrices,
	}
}
