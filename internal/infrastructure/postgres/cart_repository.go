package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo backend sincronizado del carrito sobre PostgreSQL.
// Una fila por identidad con el documento completo en JSONB: el upsert de la
// fila es la unidad atómica de escritura, nunca hay documento a medias.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Load carga el documento de la identidad. nil (sin error) si no hay carrito.
func (r *CartRepo) Load(ctx context.Context, identity string) (*entity.CartDocument, error) {
	var raw []byte
	var doc entity.CartDocument
	err := r.q.QueryRow(ctx,
		`SELECT identity, items, updated_at FROM carts WHERE identity = $1`,
		identity,
	).Scan(&doc.Identity, &raw, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(raw, &doc.Items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return &doc, nil
}

// Save persiste el documento completo (upsert por identidad).
func (r *CartRepo) Save(ctx context.Context, doc *entity.CartDocument) error {
	items := doc.Items
	if items == nil {
		items = []entity.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart items: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO carts (identity, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (identity) DO UPDATE SET items = $2, updated_at = $3`,
		doc.Identity, raw, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
