package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo adaptador de solo lectura del catálogo sobre PostgreSQL.
// quantity_prices es un JSONB {etiqueta de presentación: precio absoluto}.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, supplier_id, supplier_name, name, category, unit_price, bulk_price,
	unit_label, bulk_unit_label, min_bulk_quantity, quantity_prices, created_at, updated_at`

// GetByID obtiene un descriptor de producto por ID. nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista descriptores por fecha de creación descendente con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var rawPrices []byte
	err := row.Scan(
		&p.ID, &p.SupplierID, &p.SupplierName, &p.Name, &p.Category,
		&p.UnitPrice, &p.BulkPrice, &p.UnitLabel, &p.BulkUnitLabel,
		&p.MinBulkQuantity, &rawPrices, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rawPrices) > 0 {
		prices := make(map[string]decimal.Decimal)
		if err := json.Unmarshal(rawPrices, &prices); err != nil {
			return nil, fmt.Errorf("decode quantity_prices: %w", err)
		}
		p.QuantityPrices = prices
	}
	return &p, nil
}
