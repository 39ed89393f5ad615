// Package pricing contiene la lógica pura de precios del carrito:
// resolución de presentaciones a precio por unidad elemental y el
// cálculo de resúmenes (subtotal, impuesto, total).
package pricing

import (
	"fmt"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// ResolvedPricing es el resultado canónico de resolver una selección
// producto + tipo de pedido + presentación.
type ResolvedPricing struct {
	PackagePrice     decimal.Decimal // precio por paquete (por unidad de Quantity)
	PiecesPerPackage int64           // unidades elementales por paquete
	PricePerPiece    decimal.Decimal // PackagePrice ÷ PiecesPerPackage
	UnitLabel        string
	DisplayName      string
}

// Resolve resuelve la selección de precio de un producto.
// Prioridad: presentación con nombre (tierLabel en QuantityPrices) → bulk → unit.
// PricePerPiece se deriva siempre de PackagePrice ÷ PiecesPerPackage, de modo
// que las dos fórmulas de total de línea coinciden por construcción.
func Resolve(product *entity.Product, orderType, tierLabel string) (ResolvedPricing, error) {
	if product == nil || product.ID == "" {
		return ResolvedPricing{}, domain.ErrInvalidProduct
	}

	if tierLabel != "" {
		price, ok := product.QuantityPrices[tierLabel]
		if !ok {
			return ResolvedPricing{}, fmt.Errorf("%w: %q", domain.ErrUnknownTier, tierLabel)
		}
		pieces := LeadingInt(tierLabel)
		return ResolvedPricing{
			PackagePrice:     price,
			PiecesPerPackage: pieces,
			PricePerPiece:    price.Div(decimal.NewFromInt(pieces)),
			UnitLabel:        tierLabel,
			DisplayName:      fmt.Sprintf("%s (%s)", product.Name, tierLabel),
		}, nil
	}

	if orderType == entity.OrderTypeBulk {
		price := product.UnitPrice
		if product.BulkPrice != nil {
			price = *product.BulkPrice
		}
		pieces := product.MinBulkQuantity
		if pieces < 1 {
			pieces = 1
		}
		label := product.BulkUnitLabel
		if label == "" {
			label = product.UnitLabel
		}
		return ResolvedPricing{
			PackagePrice:     price,
			PiecesPerPackage: pieces,
			PricePerPiece:    price.Div(decimal.NewFromInt(pieces)),
			UnitLabel:        label,
			DisplayName:      product.Name,
		}, nil
	}

	return ResolvedPricing{
		PackagePrice:     product.UnitPrice,
		PiecesPerPackage: 1,
		PricePerPiece:    product.UnitPrice,
		UnitLabel:        product.UnitLabel,
		DisplayName:      product.Name,
	}, nil
}

// LeadingInt extrae el entero inicial de una etiqueta de presentación
// ("50 unidades" → 50, "5kg" → 5). Sin dígitos al inicio devuelve 1; nunca falla.
func LeadingInt(label string) int64 {
	var n int64
	seen := false
	for _, r := range label {
		if !unicode.IsDigit(r) {
			break
		}
		seen = true
		n = n*10 + int64(r-'0')
	}
	if !seen || n < 1 {
		return 1
	}
	return n
}
